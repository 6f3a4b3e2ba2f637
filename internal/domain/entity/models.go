package entity

import (
	"encoding/json"
	"time"
)

// Définition des types ENUM pour garantir la sécurité du typage
type UserRole string
type ActionType string
type ActionStatut string
type ChangementType string
type ChangementStatut string
type PVStatut string
type MissionStatut string
type PhotoSlot string

const (
	RoleAgentAutorite UserRole = "AGENT_AUTORITE"
	RoleMembreDSI     UserRole = "MEMBRE_DSI"
	RoleGouverneur    UserRole = "GOUVERNEUR"
)

// Catalogue fermé des types d'action. Les libellés d'affichage étendus
// (AMENDE, REGULARISATION...) de l'ancienne interface ne sont PAS des types
// valides : seul cet ENUM fait autorité.
const (
	ActionDemolition    ActionType = "DEMOLITION"
	ActionSignalement   ActionType = "SIGNALEMENT"
	ActionNonDemolition ActionType = "NON_DEMOLITION"
)

const (
	ActionEnCours  ActionStatut = "EN_COURS"
	ActionTerminee ActionStatut = "TERMINEE"
)

const (
	ChangementExtensionHorizontale ChangementType = "EXTENSION_HORIZONTALE"
	ChangementExtensionVerticale   ChangementType = "EXTENSION_VERTICALE"
	ChangementConstructionNouvelle ChangementType = "CONSTRUCTION_NOUVELLE"
)

const (
	ChangementDetecte      ChangementStatut = "DETECTE"
	ChangementEnTraitement ChangementStatut = "EN_TRAITEMENT"
	ChangementTraite       ChangementStatut = "TRAITE"
)

const (
	PVBrouillon PVStatut = "BROUILLON"
	PVValide    PVStatut = "VALIDE"
)

const (
	MissionPlanifiee MissionStatut = "PLANIFIEE"
	MissionEnCours   MissionStatut = "EN_COURS"
	MissionTerminee  MissionStatut = "TERMINEE"
)

const (
	PhotoAvant PhotoSlot = "BEFORE"
	PhotoApres PhotoSlot = "AFTER"
)

// Geometry est une géométrie GeoJSON (Point ou Polygon). Les coordonnées
// restent en JSON brut pour supporter les deux formes sans double modèle.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// NewPoint construit un Point GeoJSON (ordre GeoJSON: [lng, lat]).
func NewPoint(lng, lat float64) *Geometry {
	coords, _ := json.Marshal([2]float64{lng, lat})
	return &Geometry{Type: "Point", Coordinates: coords}
}

// Point extrait lng/lat si la géométrie est un Point.
func (g *Geometry) Point() (lng, lat float64, ok bool) {
	if g == nil || g.Type != "Point" {
		return 0, 0, false
	}
	var coords [2]float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}

// User définit l'utilisateur du système (agent d'autorité, DSI, gouverneur)
type User struct {
	ID           string     `json:"id"`
	Nom          string     `json:"nom"`
	Email        string     `json:"email"`
	Telephone    string     `json:"telephone,omitempty"`
	Role         UserRole   `json:"role"`
	Commune      string     `json:"commune"`
	Prefecture   string     `json:"prefecture"`
	PasswordHash string     `json:"-"` // Le hash ne doit jamais sortir en JSON
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Mission représente une zone de surveillance assignée à des agents
type Mission struct {
	ID          string            `json:"id"`
	Titre       string            `json:"titre"`
	Description string            `json:"description"`
	Statut      MissionStatut     `json:"statut"`
	Prefecture  string            `json:"prefecture"`
	Commune     string            `json:"commune"`
	AgentIDs    []string          `json:"agent_ids"`
	Geometry    *Geometry         `json:"geometry,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedBy   string            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Douar représente un douar cible d'actions, alternative à la mission
type Douar struct {
	ID         string    `json:"id"`
	Nom        string    `json:"nom"`
	Commune    string    `json:"commune"`
	Prefecture string    `json:"prefecture"`
	Geometry   *Geometry `json:"geometry,omitempty"`
	Population int       `json:"population"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Changement représente un changement d'habitat détecté (imagerie satellite).
// Invariant : le statut n'avance de DETECTE vers EN_TRAITEMENT que lorsqu'une
// action le référence, et ne revient jamais en arrière.
type Changement struct {
	ID             string           `json:"id"`
	Type           ChangementType   `json:"type"`
	Statut         ChangementStatut `json:"statut"`
	Commune        string           `json:"commune"`
	Prefecture     string           `json:"prefecture"`
	Geometry       *Geometry        `json:"geometry,omitempty"`
	LinkedActionID string           `json:"linked_action_id,omitempty"`
	DateDetection  time.Time        `json:"date_detection"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Photo est une pièce jointe d'action, taguée avant/après intervention
type Photo struct {
	URL        string    `json:"url"`
	Slot       PhotoSlot `json:"slot"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

// Action représente une intervention de terrain (démolition, signalement...).
// Exactement un PV par action : PVID est posé atomiquement à la création.
type Action struct {
	ID                  string       `json:"id"`
	Type                ActionType   `json:"type"`
	Date                time.Time    `json:"date"`
	Observations        string       `json:"observations"`
	Commune             string       `json:"commune"`
	Prefecture          string       `json:"prefecture"`
	MissionID           string       `json:"mission_id,omitempty"`
	DouarID             string       `json:"douar_id,omitempty"`
	UserID              string       `json:"user_id"`
	Geometry            *Geometry    `json:"geometry,omitempty"`
	Photos              []Photo      `json:"photos,omitempty"`
	Statut              ActionStatut `json:"statut"`
	PVID                string       `json:"pv_id,omitempty"`
	ChangementID        string       `json:"changement_id,omitempty"`
	OfficialCoordinates bool         `json:"official_coordinates"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Coordonnees est l'instantané de position figé dans le contenu du PV
type Coordonnees struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Source string  `json:"source"`
}

// PVPhotos porte les deux emplacements photo du PV (avant/après)
type PVPhotos struct {
	Before *Photo `json:"before,omitempty"`
	After  *Photo `json:"after,omitempty"`
}

// PVContenu est le corps éditable du procès-verbal
type PVContenu struct {
	Titre         string       `json:"titre"`
	Constatations string       `json:"constatations"`
	Decisions     string       `json:"decisions"`
	Coordonnees   *Coordonnees `json:"coordonnees,omitempty"`
	Photos        PVPhotos     `json:"photos"`
}

// PV représente un procès-verbal. BROUILLON est mutable, VALIDE est terminal :
// plus aucune écriture n'est admise en dehors de la validation elle-même.
type PV struct {
	ID          string     `json:"id"`
	Numero      string     `json:"numero"`
	Type        ActionType `json:"type"`
	Statut      PVStatut   `json:"statut"`
	ActionID    string     `json:"action_id"`
	Contenu     PVContenu  `json:"contenu"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ValidatedBy string     `json:"validated_by,omitempty"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
}
