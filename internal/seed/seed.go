// Package seed charge le jeu de données de démonstration au démarrage
// (équivalent des données fictives embarquées par l'ancienne interface).
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword est le mot de passe des comptes de démonstration
const DefaultPassword = "hnr-demo-2024"

func Load(ctx context.Context, st *store.Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []entity.User{
		{Nom: "Rachid Benani", Email: "agent@hnr.ma", Role: entity.RoleAgentAutorite, Commune: "Anfa", Prefecture: "Casablanca"},
		{Nom: "Salma El Idrissi", Email: "dsi@hnr.ma", Role: entity.RoleMembreDSI, Commune: "Anfa", Prefecture: "Casablanca"},
		{Nom: "Mohamed Tazi", Email: "gouverneur@hnr.ma", Role: entity.RoleGouverneur, Commune: "Anfa", Prefecture: "Casablanca"},
	}
	var agentID, dsiID string
	for i := range users {
		users[i].PasswordHash = string(hash)
		if err := st.CreateUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed utilisateur %s: %w", users[i].Email, err)
		}
		switch users[i].Role {
		case entity.RoleAgentAutorite:
			agentID = users[i].ID
		case entity.RoleMembreDSI:
			dsiID = users[i].ID
		}
	}

	missions := []entity.Mission{
		{
			Titre:       "Surveillance quartier Hay Moulay Abdellah",
			Description: "Contrôle hebdomadaire des extensions non autorisées",
			Commune:     "Aïn Chock",
			Prefecture:  "Casablanca",
			Statut:      entity.MissionEnCours,
			AgentIDs:    []string{agentID},
			CreatedBy:   dsiID,
		},
		{
			Titre:       "Veille périmètre industriel Aïn Harrouda",
			Description: "Détection des constructions nouvelles en zone non aedificandi",
			Commune:     "Aïn Harrouda",
			Prefecture:  "Mohammedia",
			Statut:      entity.MissionPlanifiee,
			AgentIDs:    []string{agentID},
			CreatedBy:   dsiID,
		},
	}
	for i := range missions {
		if err := st.CreateMission(ctx, &missions[i]); err != nil {
			return fmt.Errorf("seed mission %q: %w", missions[i].Titre, err)
		}
	}

	douars := []entity.Douar{
		{Nom: "Douar Lahraouiyine", Commune: "Moulay Rachid", Prefecture: "Casablanca", Population: 3200},
		{Nom: "Douar Skouila", Commune: "Sidi Bernoussi", Prefecture: "Casablanca", Population: 1450},
	}
	for i := range douars {
		if err := st.CreateDouar(ctx, &douars[i]); err != nil {
			return fmt.Errorf("seed douar %q: %w", douars[i].Nom, err)
		}
	}

	changements := []entity.Changement{
		{Type: entity.ChangementExtensionHorizontale, Commune: "Aïn Chock", Prefecture: "Casablanca", DateDetection: time.Now().AddDate(0, 0, -4)},
		{Type: entity.ChangementConstructionNouvelle, Commune: "Sidi Bernoussi", Prefecture: "Casablanca", DateDetection: time.Now().AddDate(0, 0, -2)},
		{Type: entity.ChangementExtensionVerticale, Commune: "Mohammedia", Prefecture: "Mohammedia", DateDetection: time.Now().AddDate(0, 0, -1)},
	}
	for i := range changements {
		if err := st.CreateChangement(ctx, &changements[i]); err != nil {
			return fmt.Errorf("seed changement: %w", err)
		}
	}

	log.Printf("[SEED] Jeu de démonstration chargé : %d utilisateurs, %d missions, %d douars, %d changements",
		len(users), len(missions), len(douars), len(changements))
	return nil
}
