// Package i18n holds the English/Kinyarwanda string catalog. Lookups are
// pure: unknown keys fall back to the key itself, unknown languages fall
// back to English. Persisting a user's language choice happens elsewhere.
package i18n

// Language is a supported UI language code.
type Language string

const (
	English     Language = "en"
	Kinyarwanda Language = "rw"
)

// DefaultLanguage is used when a profile or request carries no preference.
const DefaultLanguage = English

// Parse returns the Language for a code, defaulting to English.
func Parse(code string) Language {
	if Language(code) == Kinyarwanda {
		return Kinyarwanda
	}
	return English
}

// IsSupported reports whether code names a shipped catalog.
func IsSupported(code string) bool {
	switch Language(code) {
	case English, Kinyarwanda:
		return true
	}
	return false
}

var translations = map[Language]map[string]string{
	English: {
		// Nav
		"appName":  "CoffeeGuard Rwanda",
		"home":     "Home",
		"upload":   "Upload",
		"history":  "History",
		"language": "Language",

		// Landing
		"heroTitle":    "Protect Your Coffee Crops",
		"heroSubtitle": "AI-powered disease detection and treatment recommendations for Rwandan coffee farmers",
		"ctaButton":    "Upload Leaf Image",
		"trustBadge":   "Aligned with Rwanda agricultural guidelines",

		// Upload
		"uploadTitle":   "Upload Coffee Leaf Image",
		"uploadDesc":    "Take a clear photo of a single coffee leaf",
		"uploadTip":     "Tip: Hold the leaf flat and photograph in good lighting",
		"analyzing":     "Analyzing your leaf...",
		"analyzingDesc": "This may take a few seconds",

		// Results
		"diagnosisResult":         "Diagnosis Result",
		"disease":                 "Disease Detected",
		"confidence":              "Confidence",
		"confidenceHigh":          "The system is highly confident in this diagnosis",
		"confidenceMedium":        "The system is moderately confident in this diagnosis",
		"confidenceLow":           "The system has low confidence, consider retaking the photo",
		"severity":                "Severity Level",
		"mild":                    "Mild",
		"moderate":                "Moderate",
		"severe":                  "Severe",
		"affectedArea":            "Affected Leaf Area",
		"treatmentRec":            "Treatment Recommendation",
		"recommendedAction":       "Recommended Action",
		"applicationInstructions": "Application Instructions",
		"estimatedCost":           "Estimated Cost",
		"alternativeTreatment":    "View Alternative Treatment",
		"saveResult":              "Save Result",
		"newScan":                 "New Scan",

		// History
		"historyTitle": "Diagnostic History",
		"historyEmpty": "No diagnoses yet. Upload a leaf image to get started.",
		"viewDetails":  "View Details",
		"clearHistory": "Clear History",
		"date":         "Date",
	},
	Kinyarwanda: {
		// Nav
		"appName":  "CoffeeGuard Rwanda",
		"home":     "Ahabanza",
		"upload":   "Ohereza",
		"history":  "Amateka",
		"language": "Ururimi",

		// Landing
		"heroTitle":    "Rinda Imyaka Yawe Y'Ikawa",
		"heroSubtitle": "Gukoresha ubuhanga bwa AI mu gukurikiranira indwara z'ikawa no gutanga inama z'ubuvuzi ku bahinzi b'u Rwanda",
		"ctaButton":    "Ohereza Ifoto y'Ikibabi",
		"trustBadge":   "Bihuje n'amabwiriza y'ubuhinzi mu Rwanda",

		// Upload
		"uploadTitle":   "Ohereza Ifoto y'Ikibabi cy'Ikawa",
		"uploadDesc":    "Fata ifoto yizewe y'ikibabi kimwe cy'ikawa",
		"uploadTip":     "Inama: Shyira ikibabi ku buryo butambutse ufate ifoto mu mucyo mwiza",
		"analyzing":     "Dusesengura ikibabi cyawe...",
		"analyzingDesc": "Ibi bishobora gufata amasegonda make",

		// Results
		"diagnosisResult":         "Ibisubizo by'Isuzuma",
		"disease":                 "Indwara Yavumbuwe",
		"confidence":              "Ikizere",
		"confidenceHigh":          "Sisitemu ifite ikizere gikomeye kuri iri suzuma",
		"confidenceMedium":        "Sisitemu ifite ikizere gihagije kuri iri suzuma",
		"confidenceLow":           "Sisitemu ifite ikizere gike, gerageza gufata ifoto nshya",
		"severity":                "Urwego rw'Indwara",
		"mild":                    "Yoroheje",
		"moderate":                "Yisanzuye",
		"severe":                  "Ikabije",
		"affectedArea":            "Igice cy'Ikibabi Cyandujwe",
		"treatmentRec":            "Inama z'Ubuvuzi",
		"recommendedAction":       "Igikorwa Gisabwa",
		"applicationInstructions": "Amabwiriza y'Ikoreshwa",
		"estimatedCost":           "Igiciro Giteganijwe",
		"alternativeTreatment":    "Reba Ubuvuzi Busimbura",
		"saveResult":              "Bika Ibisubizo",
		"newScan":                 "Isuzuma Rishya",

		// History
		"historyTitle": "Amateka y'Isuzuma",
		"historyEmpty": "Nta suzuma rihari. Ohereza ifoto y'ikibabi kugira ngo utangire.",
		"viewDetails":  "Reba Ibisobanuro",
		"clearHistory": "Siba Amateka",
		"date":         "Itariki",
	},
}

// Translate returns the string for key in lang, the key itself if no
// mapping exists.
func Translate(lang Language, key string) string {
	table, ok := translations[lang]
	if !ok {
		table = translations[English]
	}
	if s, ok := table[key]; ok {
		return s
	}
	return key
}

// ConfidenceAdvisoryKey buckets a 0-1 confidence fraction into the advisory
// message shown next to a result. Thresholds follow the result page:
// >= 0.8 high, >= 0.6 medium, below that low.
func ConfidenceAdvisoryKey(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "confidenceHigh"
	case confidence >= 0.6:
		return "confidenceMedium"
	default:
		return "confidenceLow"
	}
}
