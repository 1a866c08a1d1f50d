package report

// Languages supported by report rendering.
const (
	LangEN = "en"
	LangFR = "fr"
)

// labels is the report label table. Keys are stable identifiers; every key
// must exist in both languages.
var labels = map[string]map[string]string{
	LangEN: {
		"report.summary":          "Compliance Summary",
		"report.remediation":      "Remediation Plan",
		"report.matrix":           "Control Coverage Matrix",
		"report.evidence_request": "Evidence Request List",
		"field.project":           "Project",
		"field.client":            "Client",
		"field.profile":           "Impact Profile",
		"field.run":               "Run",
		"field.generated":         "Generated",
		"field.compliance":        "Compliance",
		"field.posture":           "Posture",
		"col.control":             "Control",
		"col.name":                "Name",
		"col.family":              "Family",
		"col.coverage":            "Coverage",
		"col.tier":                "Evidence Tier",
		"col.priority":            "Priority",
		"col.recommended":         "Recommended Evidence",
		"col.rationale":           "Rationale",
		"count.full":              "Fully covered",
		"count.partial":           "Partially covered",
		"count.missing":           "Missing",
		"count.na":                "Not applicable",
		"section.top_gaps":        "Top Gaps",
		"section.request_intro":   "Please provide the following evidence, strongest form first:",
		"coverage.full":           "Full",
		"coverage.partial":        "Partial",
		"coverage.missing":        "Missing",
		"coverage.not_applicable": "Not Applicable",

		"section.progress":   "Progress Since Last Run",
		"progress.baseline":  "Compared with run",
		"progress.none":      "No movement since the previous run.",
		"progress.improved":  "Improved",
		"progress.regressed": "Regressed",
		"progress.resolved":  "Resolved gaps",
		"progress.new":       "New gaps",

		"posture.Excellent":         "Excellent",
		"posture.Good":              "Good",
		"posture.Acceptable":        "Acceptable",
		"posture.Needs Improvement": "Needs Improvement",
		"posture.Critical":          "Critical",
	},
	LangFR: {
		"report.summary":          "Sommaire de conformité",
		"report.remediation":      "Plan de remédiation",
		"report.matrix":           "Matrice de couverture des contrôles",
		"report.evidence_request": "Liste des preuves demandées",
		"field.project":           "Projet",
		"field.client":            "Client",
		"field.profile":           "Profil d'impact",
		"field.run":               "Exécution",
		"field.generated":         "Généré le",
		"field.compliance":        "Conformité",
		"field.posture":           "Posture",
		"col.control":             "Contrôle",
		"col.name":                "Nom",
		"col.family":              "Famille",
		"col.coverage":            "Couverture",
		"col.tier":                "Niveau de preuve",
		"col.priority":            "Priorité",
		"col.recommended":         "Preuve recommandée",
		"col.rationale":           "Justification",
		"count.full":              "Entièrement couverts",
		"count.partial":           "Partiellement couverts",
		"count.missing":           "Manquants",
		"count.na":                "Non applicables",
		"section.top_gaps":        "Principales lacunes",
		"section.request_intro":   "Veuillez fournir les preuves suivantes, de la forme la plus probante à la moins probante :",
		"coverage.full":           "Complète",
		"coverage.partial":        "Partielle",
		"coverage.missing":        "Manquante",
		"coverage.not_applicable": "Non applicable",

		"section.progress":   "Progression depuis la dernière exécution",
		"progress.baseline":  "Par rapport à l'exécution",
		"progress.none":      "Aucun changement depuis l'exécution précédente.",
		"progress.improved":  "Amélioré",
		"progress.regressed": "Régressé",
		"progress.resolved":  "Lacunes résolues",
		"progress.new":       "Nouvelles lacunes",

		"posture.Excellent":         "Excellente",
		"posture.Good":              "Bonne",
		"posture.Acceptable":        "Acceptable",
		"posture.Needs Improvement": "À améliorer",
		"posture.Critical":          "Critique",
	},
}

// tr resolves a label for a language, falling back to English, then to the
// key itself so a missing entry is visible rather than silent.
func tr(lang, key string) string {
	if t, ok := labels[lang][key]; ok {
		return t
	}
	if t, ok := labels[LangEN][key]; ok {
		return t
	}
	return key
}

// trCoverage localizes a stored coverage class string.
func trCoverage(lang, coverage string) string {
	return tr(lang, "coverage."+coverage)
}

// trPosture localizes a posture label.
func trPosture(lang, posture string) string {
	return tr(lang, "posture."+posture)
}
