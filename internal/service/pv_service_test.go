package service

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

// mockPublisher capture les publications AMQP sans broker
type mockPublisher struct {
	published chan publishedMessage
}

type publishedMessage struct {
	queue   string
	message interface{}
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: make(chan publishedMessage, 10)}
}

func (m *mockPublisher) Publish(ctx context.Context, queueName string, message interface{}) error {
	m.published <- publishedMessage{queue: queueName, message: message}
	return nil
}

func (m *mockPublisher) Close() {}

func createDraftPV(t *testing.T, st *store.Store, typ entity.ActionType) (*entity.Action, *entity.PV) {
	t.Helper()
	svc := NewActionService(st)
	action := &entity.Action{
		Type:         typ,
		Commune:      "Anfa",
		UserID:       "agent-1",
		Observations: "Construction non réglementaire constatée.",
	}
	if err := svc.CreateAction(context.Background(), action); err != nil {
		t.Fatalf("CreateAction: %v", err)
	}
	pv, err := st.GetPVByID(context.Background(), action.PVID)
	if err != nil || pv == nil {
		t.Fatalf("PV compagnon introuvable : %v", err)
	}
	return action, pv
}

func TestGenerateNumeroFormat(t *testing.T) {
	st := newTestStore(t)
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	numero := generateNumero(st, entity.ActionDemolition, now)
	if !regexp.MustCompile(`^PV2025DEM\d{6}$`).MatchString(numero) {
		t.Errorf("numéro %q hors format PV2025DEM<6 chiffres>", numero)
	}

	t.Run("unicité intra-milliseconde", func(t *testing.T) {
		seen := map[string]bool{numero: true}
		for i := 0; i < 20; i++ {
			n := generateNumero(st, entity.ActionDemolition, now)
			if seen[n] {
				t.Fatalf("numéro %q attribué deux fois", n)
			}
			seen[n] = true
		}
	})
}

func TestValidatePVGates(t *testing.T) {
	ctx := context.Background()

	t.Run("constatations obligatoires", func(t *testing.T) {
		st := newTestStore(t)
		svc := NewPVService(st, nil)
		_, pv := createDraftPV(t, st, entity.ActionSignalement)

		empty := "   "
		if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
			Contenu: &entity.PVContenuUpdate{Constatations: &empty},
		}); err != nil {
			t.Fatalf("UpdatePV: %v", err)
		}

		_, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1")
		if !entity.IsValidation(err) || !strings.Contains(err.Error(), "constatations") {
			t.Errorf("erreur %v, attendu le refus sur les constatations", err)
		}
	})

	t.Run("décisions obligatoires", func(t *testing.T) {
		st := newTestStore(t)
		svc := NewPVService(st, nil)
		_, pv := createDraftPV(t, st, entity.ActionSignalement)

		_, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1")
		if !entity.IsValidation(err) || !strings.Contains(err.Error(), "décisions") {
			t.Errorf("erreur %v, attendu le refus sur les décisions", err)
		}
	})

	t.Run("photos avant et après pour une démolition", func(t *testing.T) {
		st := newTestStore(t)
		svc := NewPVService(st, nil)
		_, pv := createDraftPV(t, st, entity.ActionDemolition)

		decisions := "Démolition ordonnée et exécutée."
		if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
			Contenu: &entity.PVContenuUpdate{Decisions: &decisions},
		}); err != nil {
			t.Fatalf("UpdatePV: %v", err)
		}

		_, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1")
		if !entity.IsValidation(err) || !strings.Contains(err.Error(), "photos") {
			t.Errorf("erreur %v, attendu le refus sur les photos", err)
		}

		// Avec une seule photo, toujours refusé
		if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
			Contenu: &entity.PVContenuUpdate{
				Photos: &entity.PVPhotos{Before: &entity.Photo{URL: "avant.jpg", Slot: entity.PhotoAvant}},
			},
		}); err != nil {
			t.Fatalf("UpdatePV: %v", err)
		}
		if _, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1"); !entity.IsValidation(err) {
			t.Errorf("erreur %v, attendu le refus avec une seule photo", err)
		}
	})

	t.Run("un signalement se valide sans photos", func(t *testing.T) {
		st := newTestStore(t)
		svc := NewPVService(st, nil)
		_, pv := createDraftPV(t, st, entity.ActionSignalement)

		decisions := "Signalement transmis à la préfecture."
		if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
			Contenu: &entity.PVContenuUpdate{Decisions: &decisions},
		}); err != nil {
			t.Fatalf("UpdatePV: %v", err)
		}

		validated, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1")
		if err != nil {
			t.Fatalf("ValidatePV: %v", err)
		}
		if validated.Statut != entity.PVValide {
			t.Errorf("statut = %s, attendu VALIDE", validated.Statut)
		}
	})

	t.Run("déjà validé", func(t *testing.T) {
		st := newTestStore(t)
		svc := NewPVService(st, nil)
		_, pv := createDraftPV(t, st, entity.ActionSignalement)

		decisions := "Décision prise."
		if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
			Contenu: &entity.PVContenuUpdate{Decisions: &decisions},
		}); err != nil {
			t.Fatalf("UpdatePV: %v", err)
		}
		if _, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1"); err != nil {
			t.Fatalf("ValidatePV: %v", err)
		}

		_, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1")
		if !entity.IsValidation(err) || !strings.Contains(err.Error(), "déjà validé") {
			t.Errorf("erreur %v, attendu le refus d'une double validation", err)
		}
	})
}

func TestValidatePVCompletesDemolition(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	publisher := newMockPublisher()
	svc := NewPVService(st, publisher)
	action, pv := createDraftPV(t, st, entity.ActionDemolition)

	decisions := "Démolition exécutée sur arrêté du gouverneur."
	if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
		Contenu: &entity.PVContenuUpdate{
			Decisions: &decisions,
			Photos: &entity.PVPhotos{
				Before: &entity.Photo{URL: "avant.jpg", Slot: entity.PhotoAvant},
				After:  &entity.Photo{URL: "apres.jpg", Slot: entity.PhotoApres},
			},
		},
	}); err != nil {
		t.Fatalf("UpdatePV: %v", err)
	}

	validated, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1")
	if err != nil {
		t.Fatalf("ValidatePV: %v", err)
	}
	if validated.Statut != entity.PVValide || validated.ValidatedAt == nil {
		t.Errorf("PV validé incomplet : %+v", validated)
	}

	// L'action liée bascule en TERMINEE
	a, _ := st.GetActionByID(ctx, action.ID)
	if a.Statut != entity.ActionTerminee {
		t.Errorf("statut de l'action = %s, attendu TERMINEE", a.Statut)
	}

	// La validation alimente la file d'archivage
	select {
	case msg := <-publisher.published:
		if msg.queue != PVValidatedQueue {
			t.Errorf("file = %q, attendu %q", msg.queue, PVValidatedQueue)
		}
		payload, ok := msg.message.(PVValidatedMessage)
		if !ok {
			t.Fatalf("charge utile inattendue : %T", msg.message)
		}
		if payload.PVID != pv.ID || payload.ActionID != action.ID {
			t.Errorf("charge utile = %+v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("aucune publication AMQP après validation")
	}
}

func TestUpdatePVImmutableAfterValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewPVService(st, nil)
	_, pv := createDraftPV(t, st, entity.ActionSignalement)

	decisions := "Décision prise."
	if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
		Contenu: &entity.PVContenuUpdate{Decisions: &decisions},
	}); err != nil {
		t.Fatalf("UpdatePV: %v", err)
	}
	if _, err := svc.ValidatePV(ctx, pv.ID, "gouverneur-1"); err != nil {
		t.Fatalf("ValidatePV: %v", err)
	}

	other := "Réécriture interdite."
	_, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{
		Contenu: &entity.PVContenuUpdate{Decisions: &other},
	})
	if !entity.IsValidation(err) {
		t.Errorf("erreur %v, attendu le refus de modifier un PV validé", err)
	}

	got, _ := st.GetPVByID(ctx, pv.ID)
	if got.Contenu.Decisions != decisions {
		t.Errorf("décisions = %q, le contenu validé doit rester intact", got.Contenu.Decisions)
	}
}

func TestUpdatePVTypeChangeRegeneratesNumero(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewPVService(st, nil)
	_, pv := createDraftPV(t, st, entity.ActionSignalement)

	newType := entity.ActionNonDemolition
	updated, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{Type: &newType})
	if err != nil {
		t.Fatalf("UpdatePV: %v", err)
	}
	if updated.Numero == pv.Numero {
		t.Error("le numéro devrait être régénéré lors d'un changement de type")
	}
	if !regexp.MustCompile(`^PV\d{4}NON\d{6}$`).MatchString(updated.Numero) {
		t.Errorf("numéro %q hors format après bascule en NON_DEMOLITION", updated.Numero)
	}

	t.Run("type invalide refusé", func(t *testing.T) {
		bad := entity.ActionType("AMENDE")
		if _, err := svc.UpdatePV(ctx, pv.ID, entity.PVUpdate{Type: &bad}); !entity.IsValidation(err) {
			t.Errorf("erreur %v, attendu ValidationError", err)
		}
	})
}

func TestCreatePVDeduplicatesOnAction(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewPVService(st, nil)
	action, pv := createDraftPV(t, st, entity.ActionSignalement)

	duplicate, err := svc.CreatePV(ctx, &entity.PV{
		Type:     entity.ActionSignalement,
		ActionID: action.ID,
	})
	if err != nil {
		t.Fatalf("CreatePV: %v", err)
	}
	if duplicate.ID != pv.ID {
		t.Errorf("PV retourné %q, attendu l'existant %q", duplicate.ID, pv.ID)
	}

	pvs, _ := svc.GetAllPVs(ctx)
	if len(pvs) != 1 {
		t.Errorf("%d PV en base, attendu 1 (au plus un PV par action)", len(pvs))
	}
}
