package document

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
)

// docData est le modèle passé au gabarit HTML
type docData struct {
	Numero        string
	Titre         string
	TitreAr       string
	TypeLabel     string
	Statut        string
	Brouillon     bool
	Prefecture    string
	Commune       string
	Agent         string
	Date          string
	Coordonnees   string
	Source        string
	Constatations string
	Decisions     string
	PhotoBefore   string
	PhotoAfter    string
	FaitLe        string
}

var docTmpl = template.Must(template.New("pv").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>PV {{.Numero}}</title>
<style>
  @page {
    size: A4;
    margin: 18mm;
    @bottom-center { content: "Page " counter(page) " / " counter(pages); }
  }
  body { font-family: "Times New Roman", serif; color: #111; margin: 0; }
  header { text-align: center; border-bottom: 2px solid #111; padding-bottom: 8px; }
  header .ar { font-size: 15px; }
  h1 { font-size: 18px; text-align: center; margin: 16px 0 4px; }
  .badge { text-align: center; font-size: 13px; letter-spacing: 2px; }
  table.meta { width: 100%; border-collapse: collapse; margin: 12px 0; font-size: 13px; }
  table.meta td { border: 1px solid #999; padding: 4px 8px; }
  section { margin: 14px 0; page-break-inside: avoid; }
  section h2 { font-size: 14px; border-bottom: 1px solid #999; padding-bottom: 2px; }
  .photos { display: flex; gap: 12px; }
  .photo { flex: 1; border: 1px dashed #999; min-height: 160px; text-align: center;
           display: flex; align-items: center; justify-content: center; font-size: 12px; }
  .photo img { max-width: 100%; max-height: 220px; }
  .signatures { display: flex; justify-content: space-between; margin-top: 40px; font-size: 13px; }
  .signatures div { width: 45%; border-top: 1px solid #111; padding-top: 4px; text-align: center; }
  .fait { margin-top: 30px; text-align: right; font-size: 13px; }
  {{if .Brouillon}}
  .watermark {
    position: fixed; top: 40%; left: 8%;
    font-size: 110px; color: rgba(180, 30, 30, 0.12);
    transform: rotate(-45deg); z-index: 0; pointer-events: none;
  }
  {{end}}
</style>
</head>
<body>
{{if .Brouillon}}<div class="watermark">BROUILLON</div>{{end}}
<header>
  <div class="ar">المملكة المغربية</div>
  <div>Royaume du Maroc</div>
  <div class="ar">وزارة الداخلية</div>
  <div>Ministère de l'Intérieur</div>
  <div>Préfecture de {{.Prefecture}}</div>
</header>

<h1>{{.Titre}} — {{.TitreAr}}</h1>
<div class="badge">N° {{.Numero}} · {{.TypeLabel}} · {{.Statut}}</div>

<table class="meta">
  <tr><td>Date de l'intervention</td><td>{{.Date}}</td></tr>
  <tr><td>Agent verbalisateur</td><td>{{.Agent}}</td></tr>
  <tr><td>Commune</td><td>{{.Commune}}</td></tr>
  <tr><td>Coordonnées</td><td>{{.Coordonnees}} ({{.Source}})</td></tr>
</table>

<section>
  <h2>Constatations — المعاينات</h2>
  <p>{{.Constatations}}</p>
</section>

<section>
  <h2>Décisions — القرارات</h2>
  <p>{{.Decisions}}</p>
</section>

<section>
  <h2>Photos</h2>
  <div class="photos">
    <div class="photo">{{if .PhotoBefore}}<img src="{{.PhotoBefore}}" alt="avant">{{else}}Photo avant non fournie{{end}}</div>
    <div class="photo">{{if .PhotoAfter}}<img src="{{.PhotoAfter}}" alt="après">{{else}}Photo après non fournie{{end}}</div>
  </div>
</section>

<div class="signatures">
  <div>L'agent verbalisateur</div>
  <div>Le représentant de l'autorité</div>
</div>

<div class="fait">Fait à {{.Commune}}, le {{.FaitLe}}</div>
</body>
</html>
`))

// GeneratePVDocument rend l'artefact imprimable (HTML autonome, mise en page
// A4, numérotation de page, filigrane BROUILLON tant que le PV n'est pas
// validé). Déterministe : seules les données du couple (pv, action) entrent
// dans le rendu.
func GeneratePVDocument(pv *entity.PV, action *entity.Action) ([]byte, error) {
	data := docData{
		Numero:        orDash(pv.Numero),
		Titre:         orDash(pv.Contenu.Titre),
		TitreAr:       orDash(entity.PVTemplates[pv.Type].TitreAr),
		TypeLabel:     orDash(entity.ActionTypeLabels[pv.Type]),
		Statut:        "BROUILLON",
		Brouillon:     pv.Statut != entity.PVValide,
		Prefecture:    Dash,
		Commune:       Dash,
		Agent:         Dash,
		Date:          Dash,
		Coordonnees:   Dash,
		Source:        Dash,
		Constatations: orDash(pv.Contenu.Constatations),
		Decisions:     orDash(pv.Contenu.Decisions),
		FaitLe:        pv.CreatedAt.Format("02/01/2006"),
	}
	if pv.Statut == entity.PVValide {
		data.Statut = "VALIDÉ"
	}
	if action != nil {
		data.Prefecture = orDash(action.Prefecture)
		data.Commune = orDash(action.Commune)
		data.Agent = orDash(action.UserID)
		if !action.Date.IsZero() {
			data.Date = action.Date.Format("02/01/2006")
		}
	}
	if c := pv.Contenu.Coordonnees; c != nil {
		data.Coordonnees = fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
		data.Source = orDash(c.Source)
	}
	if p := pv.Contenu.Photos.Before; p != nil {
		data.PhotoBefore = p.URL
	}
	if p := pv.Contenu.Photos.After; p != nil {
		data.PhotoAfter = p.URL
	}

	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("échec du rendu du document PV %s: %w", pv.ID, err)
	}
	return buf.Bytes(), nil
}

// DocumentFileName est le nom d'objet sous lequel l'artefact est archivé
func DocumentFileName(pv *entity.PV) string {
	return fmt.Sprintf("pv/%s.html", orDash(pv.Numero))
}
