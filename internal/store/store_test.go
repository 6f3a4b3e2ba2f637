package store

import (
	"context"
	"testing"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/events"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	bus := events.NewBus()
	t.Cleanup(bus.Close)
	return New(bus)
}

func TestCreateActionWithPV(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	action := &entity.Action{
		Type:    entity.ActionDemolition,
		Commune: "Anfa",
		UserID:  "agent-1",
	}
	pv := &entity.PV{Type: entity.ActionDemolition, Numero: "PV2025DEM000001"}

	if err := st.CreateActionWithPV(ctx, action, pv); err != nil {
		t.Fatalf("CreateActionWithPV: %v", err)
	}

	if action.ID == "" || pv.ID == "" {
		t.Fatal("les identifiants devraient être attribués")
	}
	if action.PVID != pv.ID {
		t.Errorf("action.PVID = %q, attendu %q", action.PVID, pv.ID)
	}
	if pv.ActionID != action.ID {
		t.Errorf("pv.ActionID = %q, attendu %q", pv.ActionID, action.ID)
	}
	if action.Statut != entity.ActionEnCours {
		t.Errorf("statut de l'action = %s, attendu EN_COURS", action.Statut)
	}
	if pv.Statut != entity.PVBrouillon {
		t.Errorf("statut du PV = %s, attendu BROUILLON", pv.Statut)
	}

	stored, err := st.GetPVByActionID(ctx, action.ID)
	if err != nil {
		t.Fatalf("GetPVByActionID: %v", err)
	}
	if stored == nil || stored.ID != pv.ID {
		t.Error("le PV compagnon devrait être retrouvable par l'action")
	}
}

func TestGetAbsentReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	a, err := st.GetActionByID(ctx, "inexistant")
	if err != nil || a != nil {
		t.Errorf("GetActionByID absent = (%v, %v), attendu (nil, nil)", a, err)
	}
	pv, err := st.GetPVByID(ctx, "inexistant")
	if err != nil || pv != nil {
		t.Errorf("GetPVByID absent = (%v, %v), attendu (nil, nil)", pv, err)
	}
	u, err := st.GetUserByID(ctx, "inexistant")
	if err != nil || u != nil {
		t.Errorf("GetUserByID absent = (%v, %v), attendu (nil, nil)", u, err)
	}
}

func TestUpdateAbsentReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.UpdateAction(ctx, "inexistant", entity.ActionUpdate{})
	if !entity.IsNotFound(err) {
		t.Errorf("UpdateAction absent : erreur %v, attendu NotFoundError", err)
	}
	if err := st.DeleteAction(ctx, "inexistant"); !entity.IsNotFound(err) {
		t.Errorf("DeleteAction absent : erreur %v, attendu NotFoundError", err)
	}
}

func TestDeleteActionCascadesPV(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	action := &entity.Action{Type: entity.ActionSignalement, Commune: "Anfa", UserID: "agent-1"}
	pv := &entity.PV{Type: entity.ActionSignalement}
	if err := st.CreateActionWithPV(ctx, action, pv); err != nil {
		t.Fatalf("CreateActionWithPV: %v", err)
	}

	if err := st.DeleteAction(ctx, action.ID); err != nil {
		t.Fatalf("DeleteAction: %v", err)
	}

	got, err := st.GetPVByID(ctx, pv.ID)
	if err != nil {
		t.Fatalf("GetPVByID: %v", err)
	}
	if got != nil {
		t.Error("le PV compagnon devrait être supprimé avec son action")
	}
}

func TestCreatePVForActionDeduplicates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	action := &entity.Action{Type: entity.ActionDemolition, Commune: "Anfa", UserID: "agent-1"}
	first := &entity.PV{Type: entity.ActionDemolition}
	if err := st.CreateActionWithPV(ctx, action, first); err != nil {
		t.Fatalf("CreateActionWithPV: %v", err)
	}

	second := &entity.PV{Type: entity.ActionDemolition, ActionID: action.ID}
	got, created, err := st.CreatePVForAction(ctx, second)
	if err != nil {
		t.Fatalf("CreatePVForAction: %v", err)
	}
	if created {
		t.Error("un second PV ne devrait pas être créé pour la même action")
	}
	if got.ID != first.ID {
		t.Errorf("PV retourné %q, attendu l'existant %q", got.ID, first.ID)
	}

	t.Run("action inexistante", func(t *testing.T) {
		orphan := &entity.PV{Type: entity.ActionDemolition, ActionID: "inexistant"}
		if _, _, err := st.CreatePVForAction(ctx, orphan); !entity.IsNotFound(err) {
			t.Errorf("erreur %v, attendu NotFoundError", err)
		}
	})
}

func TestValidatePVTerminatesAction(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	action := &entity.Action{Type: entity.ActionDemolition, Commune: "Anfa", UserID: "agent-1"}
	pv := &entity.PV{Type: entity.ActionDemolition}
	if err := st.CreateActionWithPV(ctx, action, pv); err != nil {
		t.Fatalf("CreateActionWithPV: %v", err)
	}

	validated, err := st.ValidatePV(ctx, pv.ID, "gouverneur-1")
	if err != nil {
		t.Fatalf("ValidatePV: %v", err)
	}
	if validated.Statut != entity.PVValide {
		t.Errorf("statut = %s, attendu VALIDE", validated.Statut)
	}
	if validated.ValidatedBy != "gouverneur-1" || validated.ValidatedAt == nil {
		t.Error("le PV validé devrait porter l'auteur et l'horodatage de validation")
	}

	a, _ := st.GetActionByID(ctx, action.ID)
	if a.Statut != entity.ActionTerminee {
		t.Errorf("statut de l'action liée = %s, attendu TERMINEE", a.Statut)
	}
}

func TestCreateChangementSynthesizesGeometry(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	c := &entity.Changement{Type: entity.ChangementConstructionNouvelle, Commune: "Sidi Bernoussi"}
	if err := st.CreateChangement(ctx, c); err != nil {
		t.Fatalf("CreateChangement: %v", err)
	}

	if c.Statut != entity.ChangementDetecte {
		t.Errorf("statut initial = %s, attendu DETECTE", c.Statut)
	}
	lng, lat, ok := c.Geometry.Point()
	if !ok {
		t.Fatal("la géométrie devrait être un Point synthétisé")
	}
	center, _ := geo.Lookup("Sidi Bernoussi")
	if geo.Deviation(geo.LatLng{Lat: lat, Lng: lng}, center) > geo.JitterMax {
		t.Errorf("point synthétisé (%v, %v) trop loin du centre %+v", lat, lng, center)
	}
}

func TestNextNumeroSuffixMonotonic(t *testing.T) {
	st := newTestStore(t)

	now := time.UnixMilli(1_700_000_123_456)
	seen := make(map[int64]bool)
	prev := int64(-1)
	for i := 0; i < 50; i++ {
		suffix := st.NextNumeroSuffix(now)
		if seen[suffix] {
			t.Fatalf("suffixe %06d attribué deux fois", suffix)
		}
		seen[suffix] = true
		if suffix <= prev {
			t.Fatalf("suffixe %06d non strictement croissant après %06d", suffix, prev)
		}
		prev = suffix
	}
}

func TestRepairCoordinates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	c := &entity.Changement{
		Type:     entity.ChangementExtensionVerticale,
		Commune:  "Anfa",
		Geometry: entity.NewPoint(-7.9, 33.9), // très loin du centre d'Anfa
	}
	if err := st.CreateChangement(ctx, c); err != nil {
		t.Fatalf("CreateChangement: %v", err)
	}
	sane := &entity.Changement{Type: entity.ChangementExtensionVerticale, Commune: "Anfa"}
	if err := st.CreateChangement(ctx, sane); err != nil {
		t.Fatalf("CreateChangement: %v", err)
	}

	repaired := st.RepairCoordinates()
	if repaired != 1 {
		t.Fatalf("%d géométries réparées, attendu 1", repaired)
	}

	got, _ := st.GetChangementByID(ctx, c.ID)
	lng, lat, ok := got.Geometry.Point()
	if !ok {
		t.Fatal("la géométrie réparée devrait rester un Point")
	}
	center, _ := geo.Lookup("Anfa")
	if geo.Deviation(geo.LatLng{Lat: lat, Lng: lng}, center) > geo.RepairThreshold {
		t.Errorf("géométrie toujours aberrante après réparation : (%v, %v)", lat, lng)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u1 := &entity.User{Nom: "Agent", Email: "agent@hnr.ma", Role: entity.RoleAgentAutorite}
	if err := st.CreateUser(ctx, u1); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	u2 := &entity.User{Nom: "Doublon", Email: "agent@hnr.ma", Role: entity.RoleMembreDSI}
	if err := st.CreateUser(ctx, u2); !entity.IsValidation(err) {
		t.Errorf("email dupliqué : erreur %v, attendu ValidationError", err)
	}
}

func TestSubscribeReceivesMutations(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	st := New(bus)

	received := make(chan events.Event, 10)
	st.Subscribe(func(e events.Event) { received <- e })

	action := &entity.Action{Type: entity.ActionSignalement, Commune: "Anfa", UserID: "agent-1"}
	pv := &entity.PV{Type: entity.ActionSignalement}
	if err := st.CreateActionWithPV(ctx, action, pv); err != nil {
		t.Fatalf("CreateActionWithPV: %v", err)
	}

	bus.Close()
	close(received)

	var got []events.Event
	for e := range received {
		got = append(got, e)
	}
	want := []events.Event{
		{Entite: "action", Op: "create", ID: action.ID},
		{Entite: "pv", Op: "create", ID: pv.ID},
	}
	if len(got) != len(want) {
		t.Fatalf("%d événements, attendu %d : %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("événement %d = %+v, attendu %+v", i, got[i], want[i])
		}
	}
}

func TestUpdateLastLoginPublishesEvent(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	st := New(bus)

	received := make(chan events.Event, 10)
	st.Subscribe(func(e events.Event) { received <- e })

	u := &entity.User{Nom: "Agent", Email: "agent@hnr.ma", Role: entity.RoleAgentAutorite}
	if err := st.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := st.UpdateLastLogin(ctx, u.ID); err != nil {
		t.Fatalf("UpdateLastLogin: %v", err)
	}

	bus.Close()
	close(received)

	var got []events.Event
	for e := range received {
		got = append(got, e)
	}
	want := []events.Event{
		{Entite: "user", Op: "create", ID: u.ID},
		{Entite: "user", Op: "update", ID: u.ID},
	}
	if len(got) != len(want) {
		t.Fatalf("%d événements, attendu %d : %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("événement %d = %+v, attendu %+v", i, got[i], want[i])
		}
	}

	stored, _ := st.GetUserByID(ctx, u.ID)
	if stored.LastLoginAt == nil {
		t.Error("lastLoginAt devrait être horodaté")
	}
}

func TestListActionsSortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	for i := 0; i < 3; i++ {
		a := &entity.Action{Type: entity.ActionSignalement, Commune: "Anfa", UserID: "agent-1"}
		pv := &entity.PV{Type: entity.ActionSignalement}
		if err := st.CreateActionWithPV(ctx, a, pv); err != nil {
			t.Fatalf("CreateActionWithPV: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	actions, err := st.ListActions(ctx)
	if err != nil {
		t.Fatalf("ListActions: %v", err)
	}
	for i := 1; i < len(actions); i++ {
		if actions[i].CreatedAt.After(actions[i-1].CreatedAt) {
			t.Errorf("liste non triée du plus récent au plus ancien à l'indice %d", i)
		}
	}
}
