package model

import "time"

// Profile represents a farmer's profile
type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Phone     *string    `json:"phone,omitempty"`
	Location  *string    `json:"location,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Prediction is the classifier's verdict for a single leaf image
type Prediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// ScanResult represents a persisted classification of a leaf photo
type ScanResult struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Crop       string    `json:"crop"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	ImageURL   *string   `json:"image_url,omitempty"`
	ScannedAt  time.Time `json:"scanned_at"`
}

// ChatEntry represents a persisted chat exchange
type ChatEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	HasImage  bool      `json:"has_image"`
	CreatedAt time.Time `json:"created_at"`
}

// ImageUsage tracks how many images an identity has submitted to the chat
// assistant. The stored count never decreases and never exceeds the cap.
type ImageUsage struct {
	Email      string    `json:"email"`
	ImageCount int       `json:"image_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DiseaseReport is the AI-elaborated report for a detected disease. Every
// field is guaranteed non-empty after normalization; renderers never see
// missing data.
type DiseaseReport struct {
	CropName                 string   `json:"crop_name"`
	DiseaseName              string   `json:"disease_name"`
	Severity                 string   `json:"severity"`
	AffectedArea             string   `json:"affected_area"`
	RecoveryTimeline         string   `json:"recovery_timeline"`
	SpreadRisk               string   `json:"spread_risk"`
	DiseaseDescription       string   `json:"disease_description"`
	Symptoms                 []string `json:"symptoms"`
	Treatment                []string `json:"treatment"`
	OrganicTreatment         []string `json:"organic_treatment"`
	FertilizerRecommendation []string `json:"fertilizer_recommendation"`
	Prevention               []string `json:"prevention"`
}

// Recommendations flattens the report's actionable lists in presentation
// order, for the numbered table in the PDF report.
func (r *DiseaseReport) Recommendations() []string {
	out := make([]string, 0,
		len(r.Symptoms)+len(r.Treatment)+len(r.OrganicTreatment)+
			len(r.FertilizerRecommendation)+len(r.Prevention))
	out = append(out, r.Symptoms...)
	out = append(out, r.Treatment...)
	out = append(out, r.OrganicTreatment...)
	out = append(out, r.FertilizerRecommendation...)
	out = append(out, r.Prevention...)
	return out
}

// ReportInput carries already-resolved data into report generation. The
// generator performs no network calls; enrichment happens upstream.
type ReportInput struct {
	ReportID        string   `json:"report_id"`
	Date            string   `json:"date"`
	Plant           string   `json:"plant"`
	Disease         string   `json:"disease"`
	Confidence      float64  `json:"confidence"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
	Image           string   `json:"image,omitempty"` // data URI, optional
}
