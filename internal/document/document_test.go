package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

func TestGeneratePVDocument(t *testing.T) {
	pv, action := samplePair()

	artifact, err := GeneratePVDocument(pv, action)
	if err != nil {
		t.Fatalf("GeneratePVDocument: %v", err)
	}
	html := string(artifact)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"size: A4",
		`counter(page)`,
		"PV2025DEM000042",
		"Procès-verbal de démolition",
		"محضر هدم",
		"Préfecture de Casablanca",
		"Construction en parpaings sans autorisation.",
		"Fait à Anfa, le 10/03/2025",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document sans %q", want)
		}
	}
}

func TestGeneratePVDocumentWatermark(t *testing.T) {
	pv, action := samplePair()

	t.Run("brouillon filigrané", func(t *testing.T) {
		artifact, err := GeneratePVDocument(pv, action)
		if err != nil {
			t.Fatalf("GeneratePVDocument: %v", err)
		}
		if !strings.Contains(string(artifact), "BROUILLON") {
			t.Error("un PV brouillon devrait porter le filigrane BROUILLON")
		}
	})

	t.Run("validé sans filigrane", func(t *testing.T) {
		pv.Statut = entity.PVValide
		artifact, err := GeneratePVDocument(pv, action)
		if err != nil {
			t.Fatalf("GeneratePVDocument: %v", err)
		}
		html := string(artifact)
		if strings.Contains(html, "watermark") {
			t.Error("un PV validé ne devrait pas porter de filigrane")
		}
		if !strings.Contains(html, "VALIDÉ") {
			t.Error("le badge de statut devrait afficher VALIDÉ")
		}
	})
}

func TestGeneratePVDocumentDeterministic(t *testing.T) {
	pv, action := samplePair()
	a, err := GeneratePVDocument(pv, action)
	if err != nil {
		t.Fatalf("GeneratePVDocument: %v", err)
	}
	b, err := GeneratePVDocument(pv, action)
	if err != nil {
		t.Fatalf("GeneratePVDocument: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("le rendu doit être identique octet pour octet pour les mêmes entrées")
	}
}

func TestGeneratePVDocumentEscapesHTML(t *testing.T) {
	pv, action := samplePair()
	pv.Contenu.Constatations = `<script>alert("x")</script>`

	artifact, err := GeneratePVDocument(pv, action)
	if err != nil {
		t.Fatalf("GeneratePVDocument: %v", err)
	}
	if strings.Contains(string(artifact), "<script>") {
		t.Error("le contenu utilisateur doit être échappé")
	}
}

func TestDocumentFileName(t *testing.T) {
	pv, _ := samplePair()
	if got := DocumentFileName(pv); got != "pv/PV2025DEM000042.html" {
		t.Errorf("DocumentFileName = %q", got)
	}
}
