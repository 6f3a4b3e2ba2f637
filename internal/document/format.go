// Package document rend un couple (PV, action) en artefacts lisibles :
// bloc texte bilingue pour la prévisualisation et document HTML imprimable
// au format A4 pour le téléchargement. Fonctions pures : mêmes entrées,
// mêmes octets, aucune lecture d'horloge.
package document

import (
	"fmt"
	"strings"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

// Dash est le substitut des champs optionnels absents
const Dash = "—"

const rule = "────────────────────────────────────────────"

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	return s
}

func photoLine(p *entity.Photo) string {
	if p == nil || p.URL == "" {
		return "[emplacement vide]"
	}
	return p.URL
}

// FormatPV produit le bloc texte structuré du PV, sections en ordre fixe :
// bandeau ministériel, identité du PV, métadonnées de l'action,
// constatations, décisions, photos, signatures, ligne de clôture.
func FormatPV(pv *entity.PV, action *entity.Action) string {
	var b strings.Builder

	prefecture := Dash
	commune := Dash
	agent := Dash
	date := Dash
	if action != nil {
		prefecture = orDash(action.Prefecture)
		commune = orDash(action.Commune)
		agent = orDash(action.UserID)
		if !action.Date.IsZero() {
			date = action.Date.Format("02/01/2006")
		}
	}

	statut := "BROUILLON"
	if pv.Statut == entity.PVValide {
		statut = "VALIDÉ"
	}

	// Bandeau ministériel bilingue
	b.WriteString("المملكة المغربية — Royaume du Maroc\n")
	b.WriteString("وزارة الداخلية — Ministère de l'Intérieur\n")
	fmt.Fprintf(&b, "Préfecture de %s — عمالة\n", prefecture)
	b.WriteString(rule + "\n")

	// Identité du PV
	fmt.Fprintf(&b, "PROCÈS-VERBAL N° %s\n", orDash(pv.Numero))
	fmt.Fprintf(&b, "%s — %s\n", orDash(entity.ActionTypeLabels[pv.Type]), orDash(entity.ActionTypeLabelsAr[pv.Type]))
	fmt.Fprintf(&b, "Statut : %s\n", statut)
	b.WriteString(rule + "\n")

	// Métadonnées de l'action
	fmt.Fprintf(&b, "Date de l'intervention : %s\n", date)
	fmt.Fprintf(&b, "Agent verbalisateur : %s\n", agent)
	fmt.Fprintf(&b, "Commune : %s — Préfecture : %s\n", commune, prefecture)
	if c := pv.Contenu.Coordonnees; c != nil {
		fmt.Fprintf(&b, "Coordonnées : %.6f, %.6f (%s)\n", c.Lat, c.Lng, c.Source)
	} else {
		fmt.Fprintf(&b, "Coordonnées : %s\n", Dash)
	}
	b.WriteString(rule + "\n")

	// Constatations
	b.WriteString("CONSTATATIONS — المعاينات\n")
	b.WriteString(orDash(pv.Contenu.Constatations) + "\n")
	b.WriteString(rule + "\n")

	// Décisions
	b.WriteString("DÉCISIONS — القرارات\n")
	b.WriteString(orDash(pv.Contenu.Decisions) + "\n")
	b.WriteString(rule + "\n")

	// Photos avant/après
	fmt.Fprintf(&b, "Photo avant : %s\n", photoLine(pv.Contenu.Photos.Before))
	fmt.Fprintf(&b, "Photo après : %s\n", photoLine(pv.Contenu.Photos.After))
	b.WriteString(rule + "\n")

	// Signatures
	b.WriteString("Signature de l'agent : ______________________\n")
	b.WriteString("Signature du représentant de l'autorité : ______________________\n")
	b.WriteString(rule + "\n")

	// Clôture
	fmt.Fprintf(&b, "Fait à %s, le %s\n", commune, pv.CreatedAt.Format("02/01/2006"))

	return b.String()
}
