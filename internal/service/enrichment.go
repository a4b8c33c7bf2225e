package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/pkg/model"
	"go.uber.org/zap"
)

const enrichmentPromptTemplate = `You are an expert agricultural scientist and senior government crop advisor.

Generate an ACCURATE and COMPLETE plant disease report for a farmer.

MANDATORY RULES:
1. Respond ONLY in valid JSON format
2. NO markdown, NO explanations, NO extra text
3. EVERY field MUST be filled (never empty, never null)
4. Use simple farmer-friendly language
5. Severity must be: "Low", "Medium", or "High"
6. Crop name must be clearly written as: %[1]s
7. All array fields must have at least 3 items

CROP INFORMATION:
Crop Name: %[1]s
Disease Name: %[2]s

GENERATE THIS EXACT JSON STRUCTURE:

{
  "crop_name": "%[1]s",
  "disease_name": "%[2]s",
  "severity": "Low or Medium or High",
  "affected_area": "Percentage and body part affected (e.g., 40%% of leaves)",
  "recovery_timeline": "Exact time (e.g., 2–4 weeks)",
  "spread_risk": "Low or Medium or High",
  "disease_description": "Clear 2-3 sentence explanation of the disease and its impact",
  "symptoms": [
    "First specific visual symptom",
    "Second visible symptom",
    "Third symptom farmers can observe",
    "Fourth characteristic sign"
  ],
  "treatment": [
    "First immediate action to take",
    "Second treatment method",
    "Third control measure"
  ],
  "organic_treatment": [
    "First organic solution",
    "Second natural remedy"
  ],
  "fertilizer_recommendation": [
    "First fertilizer type with NPK ratio",
    "Second nutrient supplement"
  ],
  "prevention": [
    "First preventive practice",
    "Second prevention method",
    "Third protective measure"
  ]
}

IMPORTANT:
- Do NOT use null, N/A, or "unknown"
- Do NOT leave any field blank
- Do NOT use markdown formatting
- Always include crop_name as "%[1]s"
- Always include disease_name as "%[2]s"
- Return ONLY the JSON, nothing else

Now generate the complete JSON report:
`

// EnrichmentService expands a bare classifier label into a full disease
// report via the model engine. It never fails: any model or parse error
// degrades to a normalized fallback report.
type EnrichmentService struct {
	engine  llm.Engine
	timeout time.Duration
	logger  *zap.Logger
}

// NewEnrichmentService creates a new EnrichmentService
func NewEnrichmentService(engine llm.Engine, timeout time.Duration, logger *zap.Logger) *EnrichmentService {
	return &EnrichmentService{
		engine:  engine,
		timeout: timeout,
		logger:  logger,
	}
}

// SplitDiseaseLabel splits a classifier label of the form
// "Crop___Disease_Name" into its crop and disease parts.
func SplitDiseaseLabel(label string) (crop, disease string) {
	crop = label
	disease = label

	if idx := strings.Index(label, "___"); idx >= 0 {
		crop = label[:idx]
		disease = label[idx+3:]
	}

	crop = strings.ReplaceAll(crop, "_", " ")
	disease = strings.ReplaceAll(disease, "_", " ")

	return strings.TrimSpace(crop), strings.TrimSpace(disease)
}

// GenerateReport produces a complete disease report for the classifier label
func (s *EnrichmentService) GenerateReport(ctx context.Context, label string) *model.DiseaseReport {
	crop, disease := SplitDiseaseLabel(label)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(enrichmentPromptTemplate, crop, disease)

	raw, err := s.engine.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Warn("report enrichment failed, using fallback",
			zap.Error(err),
			zap.String("label", label),
		)
		return normalizeReport(&model.DiseaseReport{}, crop, disease)
	}

	report, err := extractReport(raw)
	if err != nil {
		s.logger.Warn("report response unparseable, using fallback",
			zap.Error(err),
			zap.String("label", label),
		)
		return normalizeReport(&model.DiseaseReport{}, crop, disease)
	}

	return normalizeReport(report, crop, disease)
}

// extractReport pulls the JSON object out of the raw model output, which may
// be wrapped in code fences or prose despite the prompt rules.
func extractReport(raw string) (*model.DiseaseReport, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var report model.DiseaseReport
	if err := json.Unmarshal([]byte(raw[start:end+1]), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}

	return &report, nil
}

// normalizeReport fills every empty field so downstream rendering never sees
// a blank value.
func normalizeReport(r *model.DiseaseReport, crop, disease string) *model.DiseaseReport {
	if r.CropName == "" {
		r.CropName = crop
	}
	if r.DiseaseName == "" {
		r.DiseaseName = disease
	}
	if r.Severity == "" {
		r.Severity = "Medium"
	}
	if r.AffectedArea == "" {
		r.AffectedArea = "Leaves"
	}
	if r.RecoveryTimeline == "" {
		r.RecoveryTimeline = "2–4 weeks"
	}
	if r.SpreadRisk == "" {
		r.SpreadRisk = "Medium"
	}
	if r.DiseaseDescription == "" {
		r.DiseaseDescription = "This disease affects plant health and reduces crop yield."
	}
	if len(r.Symptoms) == 0 {
		r.Symptoms = []string{
			"Leaf discoloration",
			"Dark spots on leaves",
			"Wilting",
			"Reduced growth",
		}
	}
	if len(r.Treatment) == 0 {
		r.Treatment = []string{
			"Remove infected plant parts",
			"Apply recommended fungicide or bactericide",
			"Avoid overhead irrigation",
		}
	}
	if len(r.OrganicTreatment) == 0 {
		r.OrganicTreatment = []string{
			"Neem oil spray",
			"Trichoderma application",
		}
	}
	if len(r.FertilizerRecommendation) == 0 {
		r.FertilizerRecommendation = []string{
			"Balanced NPK fertilizer",
			"Micronutrient foliar spray",
		}
	}
	if len(r.Prevention) == 0 {
		r.Prevention = []string{
			"Crop rotation",
			"Use disease-resistant varieties",
			"Maintain proper spacing",
		}
	}

	return r
}
