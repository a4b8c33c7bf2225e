package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fasalrakshak/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEngine is a canned llm.Engine for enrichment tests
type fakeEngine struct {
	response string
	err      error
	waitCtx  bool
}

func (f *fakeEngine) GenerateText(ctx context.Context, _ string) (string, error) {
	if f.waitCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func (f *fakeEngine) GenerateWithImage(ctx context.Context, prompt string, _ model.InlineImage) (string, error) {
	return f.GenerateText(ctx, prompt)
}

func TestSplitDiseaseLabel(t *testing.T) {
	tests := []struct {
		label   string
		crop    string
		disease string
	}{
		{"Tomato___Early_Blight", "Tomato", "Early Blight"},
		{"Pepper_bell___Bacterial_spot", "Pepper bell", "Bacterial spot"},
		{"Healthy", "Healthy", "Healthy"},
		{"Corn___", "Corn", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			crop, disease := SplitDiseaseLabel(tt.label)
			assert.Equal(t, tt.crop, crop)
			assert.Equal(t, tt.disease, disease)
		})
	}
}

func TestGenerateReport_ParsesModelJSON(t *testing.T) {
	engine := &fakeEngine{response: "```json\n" + `{
		"crop_name": "Tomato",
		"disease_name": "Early Blight",
		"severity": "High",
		"affected_area": "40% of leaves",
		"recovery_timeline": "3 weeks",
		"spread_risk": "High",
		"disease_description": "Fungal disease causing concentric leaf spots.",
		"symptoms": ["Dark spots", "Yellowing", "Leaf drop"],
		"treatment": ["Remove leaves", "Apply mancozeb", "Rotate crops"],
		"organic_treatment": ["Neem oil", "Copper spray"],
		"fertilizer_recommendation": ["Balanced NPK", "Potash top-up"],
		"prevention": ["Spacing", "Resistant varieties", "Drip irrigation"]
	}` + "\n```"}

	svc := NewEnrichmentService(engine, time.Minute, zap.NewNop())
	report := svc.GenerateReport(context.Background(), "Tomato___Early_Blight")

	require.NotNil(t, report)
	assert.Equal(t, "Tomato", report.CropName)
	assert.Equal(t, "Early Blight", report.DiseaseName)
	assert.Equal(t, "High", report.Severity)
	assert.Equal(t, []string{"Dark spots", "Yellowing", "Leaf drop"}, report.Symptoms)
}

func TestGenerateReport_EngineErrorFallsBack(t *testing.T) {
	engine := &fakeEngine{err: errors.New("model unavailable")}

	svc := NewEnrichmentService(engine, time.Minute, zap.NewNop())
	report := svc.GenerateReport(context.Background(), "Potato___Late_Blight")

	require.NotNil(t, report)
	assert.Equal(t, "Potato", report.CropName)
	assert.Equal(t, "Late Blight", report.DiseaseName)
	assertReportComplete(t, report)
}

func TestGenerateReport_GarbageResponseFallsBack(t *testing.T) {
	engine := &fakeEngine{response: "sorry, I cannot help with that"}

	svc := NewEnrichmentService(engine, time.Minute, zap.NewNop())
	report := svc.GenerateReport(context.Background(), "Grape___Black_rot")

	require.NotNil(t, report)
	assert.Equal(t, "Grape", report.CropName)
	assertReportComplete(t, report)
}

func TestGenerateReport_TimeoutFallsBack(t *testing.T) {
	engine := &fakeEngine{waitCtx: true}

	svc := NewEnrichmentService(engine, 20*time.Millisecond, zap.NewNop())

	done := make(chan *model.DiseaseReport, 1)
	go func() {
		done <- svc.GenerateReport(context.Background(), "Apple___Scab")
	}()

	select {
	case report := <-done:
		require.NotNil(t, report)
		assertReportComplete(t, report)
	case <-time.After(5 * time.Second):
		t.Fatal("enrichment did not respect its timeout")
	}
}

func TestGenerateReport_PartialJSONIsNormalized(t *testing.T) {
	engine := &fakeEngine{response: `{"severity": "Low"}`}

	svc := NewEnrichmentService(engine, time.Minute, zap.NewNop())
	report := svc.GenerateReport(context.Background(), "Rice___Blast")

	assert.Equal(t, "Rice", report.CropName)
	assert.Equal(t, "Blast", report.DiseaseName)
	assert.Equal(t, "Low", report.Severity)
	assertReportComplete(t, report)
}

// assertReportComplete verifies normalization left no blanks
func assertReportComplete(t *testing.T, report *model.DiseaseReport) {
	t.Helper()
	assert.NotEmpty(t, report.CropName)
	assert.NotEmpty(t, report.DiseaseName)
	assert.NotEmpty(t, report.Severity)
	assert.NotEmpty(t, report.AffectedArea)
	assert.NotEmpty(t, report.RecoveryTimeline)
	assert.NotEmpty(t, report.SpreadRisk)
	assert.NotEmpty(t, report.DiseaseDescription)
	assert.NotEmpty(t, report.Symptoms)
	assert.NotEmpty(t, report.Treatment)
	assert.NotEmpty(t, report.OrganicTreatment)
	assert.NotEmpty(t, report.FertilizerRecommendation)
	assert.NotEmpty(t, report.Prevention)
}
