package models

// Treatment is the recommendation bundle attached to a prediction,
// bilingual as delivered by the classifier.
type Treatment struct {
	Action         string `json:"action"`
	ActionRw       string `json:"actionRw"`
	Instructions   string `json:"instructions"`
	InstructionsRw string `json:"instructionsRw"`
	Alternative    string `json:"alternative"`
	AlternativeRw  string `json:"alternativeRw"`
	Cost           string `json:"cost"`
}

// Prediction is the transient output of the remote classifier for one
// submitted image. It is consumed once to build a DiagnosisRecord and a
// result view, then discarded (the raw payload is archived separately).
type Prediction struct {
	Disease        string             `json:"disease"`
	DiseaseRw      string             `json:"diseaseRw"`
	Confidence     float64            `json:"confidence"` // canonical 0-1 fraction after normalization
	Severity       Severity           `json:"severity"`
	AffectedArea   float64            `json:"affectedArea"`
	Treatment      Treatment          `json:"treatment"`
	AllPredictions map[string]float64 `json:"allPredictions,omitempty"`
}

// Normalize clamps the prediction's numeric fields into their canonical
// ranges, accepting both 0-1 and 0-100 confidence shapes.
func (p *Prediction) Normalize() {
	p.Confidence = NormalizeConfidence(p.Confidence)
	p.AffectedArea = ClampAffectedArea(p.AffectedArea)
	for name, c := range p.AllPredictions {
		p.AllPredictions[name] = NormalizeConfidence(c)
	}
}
