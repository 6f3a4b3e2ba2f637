package entity

import "time"

// Requêtes de mise à jour typées par entité : seuls les champs mutables sont
// listés, un champ nil est ignoré. Les champs dérivés (ids, numéros, dates de
// création) ne peuvent pas être écrasés par un patch arbitraire.

type UserUpdate struct {
	Nom        *string
	Email      *string
	Telephone  *string
	Role       *UserRole
	Commune    *string
	Prefecture *string
}

type MissionUpdate struct {
	Titre       *string
	Description *string
	Statut      *MissionStatut
	Commune     *string
	Prefecture  *string
	AgentIDs    *[]string
	Geometry    *Geometry
	Metadata    *map[string]string
}

type DouarUpdate struct {
	Nom        *string
	Commune    *string
	Prefecture *string
	Geometry   *Geometry
	Population *int
}

type ChangementUpdate struct {
	Statut         *ChangementStatut
	Commune        *string
	Geometry       *Geometry
	LinkedActionID *string
}

type ActionUpdate struct {
	Type         *ActionType
	Date         *time.Time
	Observations *string
	Commune      *string
	Geometry     *Geometry
	Photos       *[]Photo
	Statut       *ActionStatut
}

type PVContenuUpdate struct {
	Titre         *string
	Constatations *string
	Decisions     *string
	Coordonnees   *Coordonnees
	Photos        *PVPhotos
}

type PVUpdate struct {
	Type    *ActionType
	Statut  *PVStatut
	Contenu *PVContenuUpdate
}
