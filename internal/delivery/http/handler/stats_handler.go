package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/geo"
	"github.com/saaadbeen/hnr-monitor/internal/service"
)

type StatsHandler struct {
	actionService     service.ActionService
	pvService         service.PVService
	changementService service.ChangementService
}

func NewStatsHandler(as service.ActionService, ps service.PVService, cs service.ChangementService) *StatsHandler {
	return &StatsHandler{
		actionService:     as,
		pvService:         ps,
		changementService: cs,
	}
}

// GetStats retourne les compteurs agrégés du tableau de bord DSI
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	actions, err := h.actionService.GetAllActions(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	pvs, err := h.pvService.GetAllPVs(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	changements, err := h.changementService.GetAllChangements(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	// Compteurs par type et par commune
	actionsByType := make(map[string]int)
	actionsByCommune := make(map[string]int)

	// Regroupement cartographique par cellule H3
	actionsByCell := make(map[string]int)

	now := time.Now()
	last24h := 0

	for _, a := range actions {
		actionsByType[string(a.Type)]++
		actionsByCommune[a.Commune]++

		if lng, lat, ok := a.Geometry.Point(); ok {
			actionsByCell[geo.CellOf(lat, lng)]++
		}

		// Dernières 24h
		if now.Sub(a.CreatedAt) < 24*time.Hour {
			last24h++
		}
	}

	pvsByStatut := map[string]int{
		string(entity.PVBrouillon): 0,
		string(entity.PVValide):    0,
	}
	for _, pv := range pvs {
		pvsByStatut[string(pv.Statut)]++
	}

	changementsByStatut := map[string]int{
		string(entity.ChangementDetecte):      0,
		string(entity.ChangementEnTraitement): 0,
		string(entity.ChangementTraite):       0,
	}
	for _, ch := range changements {
		changementsByStatut[string(ch.Statut)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"actions_total":         len(actions),
		"actions_24h":           last24h,
		"actions_by_type":       actionsByType,
		"actions_by_commune":    actionsByCommune,
		"actions_by_cell":       actionsByCell,
		"pvs_total":             len(pvs),
		"pvs_by_statut":         pvsByStatut,
		"changements_total":     len(changements),
		"changements_by_statut": changementsByStatut,
	})
}
