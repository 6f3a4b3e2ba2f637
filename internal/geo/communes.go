// Package geo porte la table canonique des communes surveillées et les
// fonctions pures de normalisation et de synthèse de coordonnées. C'est la
// seule source de vérité géographique : la hiérarchie préfecture → commune →
// arrondissements n'est définie nulle part ailleurs.
package geo

import (
	"math/rand"
	"strings"

	"github.com/uber/h3-go/v4"
)

// DefaultCommune est le repli lorsqu'une commune inconnue est soumise
const DefaultCommune = "Anfa"

// JitterMax est le décalage aléatoire maximal (en degrés) appliqué aux
// coordonnées synthétisées pour éviter des points superposés sur la carte
const JitterMax = 0.004

// RepairThreshold : au-delà de cet écart (en degrés) par rapport au centre
// officiel, une coordonnée stockée est considérée corrompue et recentrée
const RepairThreshold = 0.01

// h3Resolution est la résolution d'indexation retenue pour le regroupement
// cartographique (~65m de rayon de cellule)
const h3Resolution = 10

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Commune est une entrée de la table officielle
type Commune struct {
	Nom             string   `json:"nom"`
	Prefecture      string   `json:"prefecture"`
	Centre          LatLng   `json:"centre"`
	Arrondissements []string `json:"arrondissements"`
}

// Table officielle des communes des préfectures de Casablanca et Mohammedia.
// Les centres sont les coordonnées vérifiées servant à la synthèse et à la
// réparation des géométries.
var communes = []Commune{
	{Nom: "Anfa", Prefecture: "Casablanca", Centre: LatLng{33.5928, -7.6388}, Arrondissements: []string{"Anfa", "Maârif", "Sidi Belyout"}},
	{Nom: "Aïn Chock", Prefecture: "Casablanca", Centre: LatLng{33.5412, -7.5822}, Arrondissements: []string{"Aïn Chock"}},
	{Nom: "Aïn Sebaâ", Prefecture: "Casablanca", Centre: LatLng{33.6103, -7.5325}, Arrondissements: []string{"Aïn Sebaâ", "Hay Mohammadi", "Roches Noires"}},
	{Nom: "Ben M'Sick", Prefecture: "Casablanca", Centre: LatLng{33.5567, -7.5823}, Arrondissements: []string{"Ben M'Sick", "Sbata"}},
	{Nom: "Moulay Rachid", Prefecture: "Casablanca", Centre: LatLng{33.5534, -7.5511}, Arrondissements: []string{"Moulay Rachid", "Sidi Othmane"}},
	{Nom: "Sidi Bernoussi", Prefecture: "Casablanca", Centre: LatLng{33.6078, -7.5042}, Arrondissements: []string{"Sidi Bernoussi", "Sidi Moumen"}},
	{Nom: "Hay Hassani", Prefecture: "Casablanca", Centre: LatLng{33.5553, -7.6772}, Arrondissements: []string{"Hay Hassani"}},
	{Nom: "Al Fida", Prefecture: "Casablanca", Centre: LatLng{33.5731, -7.6016}, Arrondissements: []string{"Al Fida", "Mers Sultan"}},
	{Nom: "Mohammedia", Prefecture: "Mohammedia", Centre: LatLng{33.6866, -7.3830}, Arrondissements: []string{"Mohammedia"}},
	{Nom: "Aïn Harrouda", Prefecture: "Mohammedia", Centre: LatLng{33.6372, -7.4483}, Arrondissements: []string{"Aïn Harrouda"}},
	{Nom: "Ben Yakhlef", Prefecture: "Mohammedia", Centre: LatLng{33.6539, -7.3310}, Arrondissements: []string{"Ben Yakhlef"}},
}

var byNormalizedName = func() map[string]Commune {
	m := make(map[string]Commune, len(communes))
	for _, c := range communes {
		m[Normalize(c.Nom)] = c
	}
	return m
}()

var diacritics = strings.NewReplacer(
	"â", "a", "à", "a", "ä", "a", "á", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i", "í", "i",
	"ô", "o", "ö", "o", "ó", "o",
	"û", "u", "ù", "u", "ü", "u", "ú", "u",
	"ç", "c", "’", "'",
)

// Normalize rend un nom de commune comparable : minuscules, diacritiques
// aplatis, espaces réduits. Appliquée à chaque point d'entrée avant lookup,
// elle absorbe les variantes d'orthographe des anciennes tables dupliquées.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = diacritics.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Lookup retourne le centre officiel d'une commune, après normalisation
func Lookup(name string) (LatLng, bool) {
	c, ok := byNormalizedName[Normalize(name)]
	if !ok {
		return LatLng{}, false
	}
	return c.Centre, true
}

// Canonical retourne l'orthographe canonique et la préfecture d'une commune
func Canonical(name string) (commune, prefecture string, ok bool) {
	c, found := byNormalizedName[Normalize(name)]
	if !found {
		return "", "", false
	}
	return c.Nom, c.Prefecture, true
}

// Communes retourne la table complète (copie, ordre stable)
func Communes() []Commune {
	out := make([]Commune, len(communes))
	copy(out, communes)
	return out
}

// Jitter décale un centre d'au plus JitterMax degrés par axe
func Jitter(center LatLng) LatLng {
	return LatLng{
		Lat: center.Lat + (rand.Float64()*2-1)*JitterMax,
		Lng: center.Lng + (rand.Float64()*2-1)*JitterMax,
	}
}

// Deviation mesure l'écart maximal par axe entre deux positions (degrés)
func Deviation(a, b LatLng) float64 {
	dLat := a.Lat - b.Lat
	if dLat < 0 {
		dLat = -dLat
	}
	dLng := a.Lng - b.Lng
	if dLng < 0 {
		dLng = -dLng
	}
	if dLat > dLng {
		return dLat
	}
	return dLng
}

// CellOf indexe une position dans la grille H3 (regroupement cartographique)
func CellOf(lat, lng float64) string {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lng), h3Resolution)
	return cell.String()
}

// BoundsOf retourne la boîte englobante approximative d'une commune
func BoundsOf(name string) (Bounds, bool) {
	center, ok := Lookup(name)
	if !ok {
		return Bounds{}, false
	}
	const half = 0.02
	return Bounds{
		MinLat: center.Lat - half,
		MinLng: center.Lng - half,
		MaxLat: center.Lat + half,
		MaxLng: center.Lng + half,
	}, true
}
