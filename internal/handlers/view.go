package handlers

import (
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/i18n"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
)

// ResultView is the localized, display-ready rendering of one diagnosis.
// Confidence is formatted as a whole percent; the advisory line reflects
// the high/medium/low confidence band.
type ResultView struct {
	ID            string  `json:"id,omitempty"`
	ImageURL      string  `json:"image_url"`
	DiseaseName   string  `json:"disease_name"`
	Confidence    float64 `json:"confidence"`
	ConfidenceStr string  `json:"confidence_display"`
	Advisory      string  `json:"advisory"`
	Severity      string  `json:"severity"`
	SeverityLabel string  `json:"severity_label"`
	AffectedArea  float64 `json:"affected_area"`
	Treatment     string  `json:"treatment"`
	Instructions  string  `json:"instructions,omitempty"`
	Alternative   string  `json:"alternative,omitempty"`
	EstimatedCost string  `json:"estimated_cost,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	Language      string  `json:"language"`
}

func severityLabelKey(s models.Severity) string {
	// Catalog keys match the enum values directly.
	return string(s)
}

// pickLocalized returns the Kinyarwanda variant when the language asks for
// it and a translation exists, otherwise the English text.
func pickLocalized(lang i18n.Language, en, rw string) string {
	if lang == i18n.Kinyarwanda && rw != "" {
		return rw
	}
	return en
}

// renderRecordView localizes a stored diagnosis record for display.
func renderRecordView(lang i18n.Language, r *models.DiagnosisRecord) ResultView {
	return ResultView{
		ID:            r.ID.String(),
		ImageURL:      r.ImageURL,
		DiseaseName:   pickLocalized(lang, r.DiseaseName, r.DiseaseNameRw),
		Confidence:    r.Confidence,
		ConfidenceStr: models.FormatConfidence(r.Confidence),
		Advisory:      i18n.Translate(lang, i18n.ConfidenceAdvisoryKey(r.Confidence)),
		Severity:      string(r.Severity),
		SeverityLabel: i18n.Translate(lang, severityLabelKey(r.Severity)),
		AffectedArea:  r.AffectedArea,
		Treatment:     r.TreatmentAction,
		Instructions:  r.TreatmentInstructions,
		Alternative:   r.TreatmentAlternative,
		EstimatedCost: r.EstimatedCost,
		CreatedAt:     r.CreatedAt.Format("2006-01-02 15:04:05"),
		Language:      string(lang),
	}
}

// renderPredictionView localizes a fresh prediction, before (or instead of)
// persistence. The bilingual treatment fields come straight from the
// classifier response, so both variants are available here.
func renderPredictionView(lang i18n.Language, imageURL string, p *models.Prediction) ResultView {
	severity, _ := models.ParseSeverity(string(p.Severity))
	return ResultView{
		ImageURL:      imageURL,
		DiseaseName:   pickLocalized(lang, p.Disease, p.DiseaseRw),
		Confidence:    p.Confidence,
		ConfidenceStr: models.FormatConfidence(p.Confidence),
		Advisory:      i18n.Translate(lang, i18n.ConfidenceAdvisoryKey(p.Confidence)),
		Severity:      string(severity),
		SeverityLabel: i18n.Translate(lang, severityLabelKey(severity)),
		AffectedArea:  p.AffectedArea,
		Treatment:     pickLocalized(lang, p.Treatment.Action, p.Treatment.ActionRw),
		Instructions:  pickLocalized(lang, p.Treatment.Instructions, p.Treatment.InstructionsRw),
		Alternative:   pickLocalized(lang, p.Treatment.Alternative, p.Treatment.AlternativeRw),
		EstimatedCost: p.Treatment.Cost,
		Language:      string(lang),
	}
}
