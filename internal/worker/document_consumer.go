package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/saaadbeen/hnr-monitor/internal/document"
	"github.com/saaadbeen/hnr-monitor/internal/platform/queue"
	"github.com/saaadbeen/hnr-monitor/internal/service"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

// DocumentConsumer écoute la file des PV validés, rend l'artefact imprimable
// et l'archive dans le stockage objet.
type DocumentConsumer struct {
	consumer       queue.Consumer
	store          *store.Store
	storageService service.StorageService
}

func NewDocumentConsumer(consumer queue.Consumer, st *store.Store, storageService service.StorageService) *DocumentConsumer {
	return &DocumentConsumer{
		consumer:       consumer,
		store:          st,
		storageService: storageService,
	}
}

func (c *DocumentConsumer) Start(ctx context.Context) error {
	log.Printf("[WORKER] Démarrage du DocumentConsumer sur la file '%s'...", service.PVValidatedQueue)

	handler := func(ctx context.Context, body []byte) error {
		var msg service.PVValidatedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal message: %w", err)
		}

		log.Printf("[WORKER] Archivage du document pour le PV %s (%s)", msg.PVID, msg.Numero)

		pv, err := c.store.GetPVByID(ctx, msg.PVID)
		if err != nil {
			return err
		}
		if pv == nil {
			// PV supprimé entre validation et archivage : rien à faire
			log.Printf("[WORKER] PV %s disparu avant archivage, message ignoré", msg.PVID)
			return nil
		}
		action, err := c.store.GetActionByID(ctx, pv.ActionID)
		if err != nil {
			return err
		}

		artifact, err := document.GeneratePVDocument(pv, action)
		if err != nil {
			return fmt.Errorf("rendu du document échoué pour le PV %s: %w", pv.ID, err)
		}

		if err := c.storageService.ArchiveDocument(ctx, document.DocumentFileName(pv), artifact); err != nil {
			return fmt.Errorf("archivage échoué pour le PV %s: %w", pv.ID, err)
		}

		return nil
	}

	return c.consumer.Consume(ctx, service.PVValidatedQueue, handler)
}
