package offlinequeue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one pending write operation, captured verbatim so the replay
// re-issues exactly the request that originally failed.
type Entry struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	Path        string          `json:"path"`
	Method      string          `json:"method"`
	Body        json.RawMessage `json:"body,omitempty"`
	Description string          `json:"description"`
}

// newEntryID строит локальный ID записи: миллисекунды + случайный хвост.
// Времени достаточно для сортировки глазами, хвост защищает от коллизий
// в пределах одной миллисекунды.
func newEntryID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
