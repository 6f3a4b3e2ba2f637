package entity

// ActionTypeLabels : libellés français des types d'action (titres de PV,
// affichage). Aucune clé hors ENUM : le catalogue fermé fait autorité.
var ActionTypeLabels = map[ActionType]string{
	ActionDemolition:    "Démolition",
	ActionSignalement:   "Signalement",
	ActionNonDemolition: "Non-démolition",
}

// ActionTypeLabelsAr : libellés arabes correspondants (en-têtes bilingues)
var ActionTypeLabelsAr = map[ActionType]string{
	ActionDemolition:    "هدم",
	ActionSignalement:   "تبليغ",
	ActionNonDemolition: "عدم الهدم",
}

// PVTemplate configure le gabarit de PV associé à un type d'action
type PVTemplate struct {
	Titre   string
	TitreAr string
}

var PVTemplates = map[ActionType]PVTemplate{
	ActionDemolition: {
		Titre:   "Procès-verbal de démolition",
		TitreAr: "محضر هدم",
	},
	ActionSignalement: {
		Titre:   "Procès-verbal de signalement",
		TitreAr: "محضر تبليغ",
	},
	ActionNonDemolition: {
		Titre:   "Procès-verbal de non-démolition",
		TitreAr: "محضر عدم الهدم",
	},
}

var ChangementTypeLabels = map[ChangementType]string{
	ChangementExtensionHorizontale: "Extension horizontale",
	ChangementExtensionVerticale:   "Extension verticale",
	ChangementConstructionNouvelle: "Construction nouvelle",
}

// ValidActionType vérifie l'appartenance au catalogue fermé
func ValidActionType(t ActionType) bool {
	_, ok := ActionTypeLabels[t]
	return ok
}

func ValidChangementType(t ChangementType) bool {
	_, ok := ChangementTypeLabels[t]
	return ok
}

func ValidRole(r UserRole) bool {
	return r == RoleAgentAutorite || r == RoleMembreDSI || r == RoleGouverneur
}
