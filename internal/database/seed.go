package database

import (
	"log"

	"github.com/lib/pq"
)

type diseaseSeed struct {
	name, nameRw             string
	description, descRw      string
	symptoms, symptomsRw     string
	treatment, treatmentRw   string
	prevention, preventionRw string
	estimatedCost            string
	severityLevels           []string
}

// The catalog matches the three classes the classifier is trained on.
var diseaseSeeds = []diseaseSeed{
	{
		name:           "Healthy",
		nameRw:         "Neza",
		description:    "No disease detected; the leaf shows normal coloration and structure.",
		descRw:         "Nta ndwara yagaragaye; ikibabi kigaragara neza.",
		symptoms:       "Uniform green color, no spots or discoloration.",
		symptomsRw:     "Ibara risanzwe ry'icyatsi, nta bibara.",
		treatment:      "Continue regular monitoring and maintenance.",
		treatmentRw:    "Komeza gukurikirana no kubungabunga.",
		prevention:     "Monitor leaves regularly. Maintain proper pruning. Keep soil moisture balanced.",
		preventionRw:   "Suza amababi akenshi. Menye ubwoko bw'imirire. Gwiza amazi neza.",
		estimatedCost:  "Low",
		severityLevels: []string{"mild"},
	},
	{
		name:           "Red Spider Mite",
		nameRw:         "Ubwukunzi",
		description:    "Mite infestation causing stippled, bronzed foliage and leaf drop.",
		descRw:         "Udukoko dutera amababi kwijima no kugwa.",
		symptoms:       "Fine stippling on leaves, bronzing, webbing on the underside.",
		symptomsRw:     "Utubara duto ku mababi, kwijima, urushundura munsi y'ikibabi.",
		treatment:      "Apply acaricide spray (e.g. neem oil); repeat every 7-10 days on both leaf surfaces.",
		treatmentRw:    "Kwinjiza inzira y'urugo vuba; gusuza mu minsi 7-10 ku mpande zombi.",
		prevention:     "Introduce natural predators like ladybugs; avoid drought stress.",
		preventionRw:   "Shakira ibinyabupfu bishya; irinde amapfa.",
		estimatedCost:  "$10-20",
		severityLevels: []string{"mild", "moderate"},
	},
	{
		name:           "Rust",
		nameRw:         "Isigiire",
		description:    "Coffee leaf rust (Hemileia vastatrix); orange pustules on the leaf underside.",
		descRw:         "Imvura y'ikibabi cy'ikawa; utubara tw'umuhondo munsi y'ikibabi.",
		symptoms:       "Yellow-orange powdery lesions, premature leaf fall.",
		symptomsRw:     "Ibikomere by'umuhondo, amababi agwa hakiri kare.",
		treatment:      "Apply copper fungicide immediately; repeat every 5-7 days; remove severely affected leaves.",
		treatmentRw:    "Kwinjiza inzira y'urugo vuba; gusuza mu minsi 5-7; kuvanisha amababi ahagarikitswe.",
		prevention:     "Improve air circulation by pruning; avoid leaf wetting; consider resistant varieties.",
		preventionRw:   "Kwiheza umwungeri; gatanga urutihe y'amazi; tekereza ubwoko buhanganira indwara.",
		estimatedCost:  "$15-30",
		severityLevels: []string{"moderate", "severe"},
	},
}

// SeedDiseases inserts the reference catalog, skipping rows that already
// exist so restarts stay idempotent.
func SeedDiseases() error {
	for _, d := range diseaseSeeds {
		_, err := PostgresDB.Exec(`
			INSERT INTO diseases (
				name, name_rw, description, description_rw, symptoms, symptoms_rw,
				treatment, treatment_rw, prevention, prevention_rw, estimated_cost, severity_levels
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (name) DO NOTHING
		`, d.name, d.nameRw, d.description, d.descRw, d.symptoms, d.symptomsRw,
			d.treatment, d.treatmentRw, d.prevention, d.preventionRw, d.estimatedCost,
			pq.Array(d.severityLevels))
		if err != nil {
			return err
		}
	}

	log.Println("✅ Disease catalog seeded")
	return nil
}
