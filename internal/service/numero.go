package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/saaadbeen/hnr-monitor/internal/domain/entity"
	"github.com/saaadbeen/hnr-monitor/internal/store"
)

// generateNumero : PV + année + 3 premières lettres du type + 6 chiffres.
// Format historique conservé ; le suffixe est séquencé par le store, l'unicité
// intra-processus est donc garantie même pour deux créations dans la même
// milliseconde.
func generateNumero(st *store.Store, t entity.ActionType, now time.Time) string {
	prefix := strings.ToUpper(string(t))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("PV%d%s%06d", now.Year(), prefix, st.NextNumeroSuffix(now))
}
