// Package events fournit le bus de propagation des changements du store.
// La publication a lieu après commit et passe par un canal tamponné drainé
// par une unique goroutine : un abonné lent retarde les livraisons suivantes
// mais ne bloque jamais l'écriture qui a déclenché l'événement.
package events

import "sync"

// Event décrit une mutation réussie d'une collection du store
type Event struct {
	Entite string `json:"entite"` // "action", "pv", "mission", ...
	Op     string `json:"op"`     // "create", "update", "delete", "repair"
	ID     string `json:"id"`
}

type subscriber struct {
	id int
	fn func(Event)
}

type Bus struct {
	mu     sync.Mutex // abonnés
	subs   []subscriber
	nextID int

	// closeMu couvre le drapeau closed ET l'envoi sur le canal : Close ne
	// peut pas fermer le canal entre la vérification et l'envoi d'un Publish
	// concurrent. Lecture partagée, l'envoi ne sérialise pas les écrivains.
	closeMu sync.RWMutex
	closed  bool
	ch      chan Event
	done    chan struct{}
}

func NewBus() *Bus {
	b := &Bus{
		ch:   make(chan Event, 256),
		done: make(chan struct{}),
	}
	go b.dispatch()
	return b
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for e := range b.ch {
		// Instantané des abonnés dans l'ordre d'inscription
		b.mu.Lock()
		subs := make([]subscriber, len(b.subs))
		copy(subs, b.subs)
		b.mu.Unlock()

		for _, s := range subs {
			s.fn(e)
		}
	}
}

// Subscribe enregistre un rappel et retourne la fonction de désinscription.
// Les rappels sont invoqués dans l'ordre d'inscription, un événement à la fois.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish dépose un événement. N'appeler qu'après commit de la mutation.
func (b *Bus) Publish(e Event) {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return
	}
	b.ch <- e
}

// Close arrête le dispatcher après avoir drainé les événements en attente.
// Le verrou exclusif attend la fin des Publish en cours avant de fermer.
func (b *Bus) Close() {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return
	}
	b.closed = true
	b.closeMu.Unlock()
	close(b.ch)
	<-b.done
}
