package events

import (
	"sync"
	"testing"
	"time"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()

	received := make(chan Event, 10)
	bus.Subscribe(func(e Event) { received <- e })

	bus.Publish(Event{Entite: "action", Op: "create", ID: "a1"})
	bus.Publish(Event{Entite: "pv", Op: "create", ID: "p1"})
	bus.Publish(Event{Entite: "pv", Op: "update", ID: "p1"})

	// Close draine le canal avant de rendre la main
	bus.Close()
	close(received)

	var got []Event
	for e := range received {
		got = append(got, e)
	}
	want := []Event{
		{Entite: "action", Op: "create", ID: "a1"},
		{Entite: "pv", Op: "create", ID: "p1"},
		{Entite: "pv", Op: "update", ID: "p1"},
	}
	if len(got) != len(want) {
		t.Fatalf("%d événements reçus, attendu %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("événement %d = %+v, attendu %+v", i, got[i], want[i])
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	received := make(chan Event, 10)
	unsubscribe := bus.Subscribe(func(e Event) { received <- e })

	bus.Publish(Event{Entite: "mission", Op: "create", ID: "m1"})

	// Laisse le dispatcher livrer avant la désinscription
	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("événement jamais livré")
	}

	unsubscribe()
	bus.Publish(Event{Entite: "mission", Op: "delete", ID: "m1"})
	bus.Close()

	select {
	case e := <-received:
		t.Errorf("événement reçu après désinscription : %+v", e)
	default:
	}
}

func TestBusPublishAfterCloseIsNoop(t *testing.T) {
	bus := NewBus()
	bus.Close()
	// Ne doit ni paniquer ni bloquer
	bus.Publish(Event{Entite: "action", Op: "create", ID: "a1"})
}

func TestBusCloseDuringConcurrentPublish(t *testing.T) {
	// Close pendant des Publish concurrents : jamais de panique par envoi
	// sur canal fermé, chaque Publish aboutit ou devient silencieusement no-op
	for i := 0; i < 25; i++ {
		bus := NewBus()

		var wg sync.WaitGroup
		for j := 0; j < 8; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < 50; k++ {
					bus.Publish(Event{Entite: "action", Op: "update", ID: "a1"})
				}
			}()
		}

		bus.Close()
		wg.Wait()
	}
}
