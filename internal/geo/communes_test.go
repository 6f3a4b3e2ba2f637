package geo

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Aïn Chock", "ain chock"},
		{"AIN   CHOCK", "ain chock"},
		{"  Aïn Sebaâ ", "ain sebaa"},
		{"Ben M'Sick", "ben m'sick"},
		{"Ben M’Sick", "ben m'sick"},
		{"ANFA", "anfa"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, attendu %q", c.in, got, c.want)
		}
	}
}

func TestLookup(t *testing.T) {
	t.Run("variantes orthographiques", func(t *testing.T) {
		ref, ok := Lookup("Aïn Chock")
		if !ok {
			t.Fatal("Aïn Chock devrait être connue")
		}
		for _, variant := range []string{"ain chock", "AIN CHOCK", " Aïn  Chock "} {
			got, ok := Lookup(variant)
			if !ok {
				t.Errorf("Lookup(%q) : commune non trouvée", variant)
				continue
			}
			if got != ref {
				t.Errorf("Lookup(%q) = %+v, attendu %+v", variant, got, ref)
			}
		}
	})

	t.Run("commune inconnue", func(t *testing.T) {
		if _, ok := Lookup("Atlantis"); ok {
			t.Error("une commune inconnue ne devrait pas être trouvée")
		}
	})
}

func TestCanonical(t *testing.T) {
	commune, prefecture, ok := Canonical("ain harrouda")
	if !ok {
		t.Fatal("ain harrouda devrait être résolue")
	}
	if commune != "Aïn Harrouda" {
		t.Errorf("orthographe canonique = %q, attendu %q", commune, "Aïn Harrouda")
	}
	if prefecture != "Mohammedia" {
		t.Errorf("préfecture = %q, attendu %q", prefecture, "Mohammedia")
	}
}

func TestJitterBounded(t *testing.T) {
	center := LatLng{Lat: 33.5928, Lng: -7.6388}
	for i := 0; i < 200; i++ {
		p := Jitter(center)
		if Deviation(p, center) > JitterMax {
			t.Fatalf("Jitter a dépassé %v degrés : %+v depuis %+v", JitterMax, p, center)
		}
	}
}

func TestDeviation(t *testing.T) {
	a := LatLng{Lat: 33.0, Lng: -7.0}
	b := LatLng{Lat: 33.003, Lng: -7.011}
	if got := Deviation(a, b); math.Abs(got-0.011) > 1e-12 {
		t.Errorf("Deviation = %v, attendu 0.011", got)
	}
	if got := Deviation(a, a); got != 0 {
		t.Errorf("Deviation identique = %v, attendu 0", got)
	}
}

func TestBoundsOf(t *testing.T) {
	bounds, ok := BoundsOf("Anfa")
	if !ok {
		t.Fatal("Anfa devrait avoir une emprise")
	}
	center, _ := Lookup("Anfa")
	if bounds.MinLat >= center.Lat || bounds.MaxLat <= center.Lat {
		t.Errorf("le centre devrait être dans l'emprise en latitude : %+v / %+v", bounds, center)
	}
	if bounds.MinLng >= center.Lng || bounds.MaxLng <= center.Lng {
		t.Errorf("le centre devrait être dans l'emprise en longitude : %+v / %+v", bounds, center)
	}

	if _, ok := BoundsOf("Atlantis"); ok {
		t.Error("une commune inconnue ne devrait pas avoir d'emprise")
	}
}

func TestCellOfStable(t *testing.T) {
	a := CellOf(33.5928, -7.6388)
	b := CellOf(33.5928, -7.6388)
	if a == "" {
		t.Fatal("la cellule ne devrait pas être vide")
	}
	if a != b {
		t.Errorf("CellOf n'est pas déterministe : %q vs %q", a, b)
	}
	// Mohammedia est loin d'Anfa, les cellules doivent différer
	if c := CellOf(33.6866, -7.3830); c == a {
		t.Error("deux positions éloignées ne devraient pas partager une cellule")
	}
}
