// Package store détient toutes les collections d'entités en mémoire. C'est
// l'unique propriétaire de l'état partagé : le moteur de cycle de vie et les
// handlers ne mutent jamais une collection autrement que par ses méthodes.
// L'état est volatil par exigence (aucune persistance durable).
package store

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/events"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
)

// Store est construit explicitement au démarrage et injecté par référence.
// Le mutex unique rend chaque opération atomique du point de vue des appelants.
type Store struct {
	mu  sync.Mutex
	bus *events.Bus

	users       map[string]*entity.User
	missions    map[string]*entity.Mission
	douars      map[string]*entity.Douar
	changements map[string]*entity.Changement
	actions     map[string]*entity.Action
	pvs         map[string]*entity.PV

	// Dernier suffixe de numéro de PV attribué : garantit l'unicité
	// intra-processus même pour deux créations dans la même milliseconde
	lastNumeroSuffix int64
}

func New(bus *events.Bus) *Store {
	return &Store{
		bus:         bus,
		users:       make(map[string]*entity.User),
		missions:    make(map[string]*entity.Mission),
		douars:      make(map[string]*entity.Douar),
		changements: make(map[string]*entity.Changement),
		actions:     make(map[string]*entity.Action),
		pvs:         make(map[string]*entity.PV),
	}
}

// Subscribe expose l'abonnement aux mutations ; retourne la désinscription
func (s *Store) Subscribe(fn func(events.Event)) func() {
	return s.bus.Subscribe(fn)
}

func (s *Store) publish(entite, op, id string) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Entite: entite, Op: op, ID: id})
	}
}

func newID() string {
	return uuid.New().String()
}

// synthesize fabrique un Point à partir du centre officiel de la commune,
// décalé légèrement pour éviter des marqueurs superposés. Une commune
// inconnue est journalisée puis repliée sur la commune par défaut plutôt
// que de faire échouer l'opération.
func synthesize(commune string) (*entity.Geometry, bool) {
	center, ok := geo.Lookup(commune)
	if !ok {
		log.Printf("[STORE] commune inconnue %q, repli sur %s", commune, geo.DefaultCommune)
		center, _ = geo.Lookup(geo.DefaultCommune)
	}
	p := geo.Jitter(center)
	return entity.NewPoint(p.Lng, p.Lat), ok
}

// NextNumeroSuffix attribue le suffixe à 6 chiffres d'un numéro de PV.
// Semé sur l'horodatage milliseconde (ordre chronologique lisible) puis
// incrémenté en cas de collision dans la même milliseconde.
func (s *Store) NextNumeroSuffix(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	suffix := now.UnixMilli() % 1_000_000
	if suffix <= s.lastNumeroSuffix {
		suffix = (s.lastNumeroSuffix + 1) % 1_000_000
	}
	s.lastNumeroSuffix = suffix
	return suffix
}

// RepairCoordinates recale toute géométrie ponctuelle s'écartant de plus de
// geo.RepairThreshold du centre officiel de sa commune. Exécutée une fois à
// la construction de l'application (après chargement des données de
// démonstration) ; les abonnés sont notifiés une seule fois pour le lot.
func (s *Store) RepairCoordinates() int {
	s.mu.Lock()

	repaired := 0
	repair := func(commune string, g *entity.Geometry) *entity.Geometry {
		lng, lat, ok := g.Point()
		if !ok {
			return nil
		}
		center, known := geo.Lookup(commune)
		if !known {
			return nil
		}
		if geo.Deviation(geo.LatLng{Lat: lat, Lng: lng}, center) <= geo.RepairThreshold {
			return nil
		}
		p := geo.Jitter(center)
		return entity.NewPoint(p.Lng, p.Lat)
	}

	for _, m := range s.missions {
		if g := repair(m.Commune, m.Geometry); g != nil {
			m.Geometry = g
			repaired++
		}
	}
	for _, d := range s.douars {
		if g := repair(d.Commune, d.Geometry); g != nil {
			d.Geometry = g
			repaired++
		}
	}
	for _, c := range s.changements {
		if g := repair(c.Commune, c.Geometry); g != nil {
			c.Geometry = g
			repaired++
		}
	}
	for _, a := range s.actions {
		if g := repair(a.Commune, a.Geometry); g != nil {
			a.Geometry = g
			repaired++
		}
	}

	s.mu.Unlock()

	if repaired > 0 {
		log.Printf("[STORE] %d géométrie(s) recalée(s) sur les centres officiels", repaired)
		s.publish("store", "repair", strconv.Itoa(repaired))
	}
	return repaired
}
