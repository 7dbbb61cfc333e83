package results

import (
	"encoding/json"
	"time"
)

// HistoryEntry is a successful upload and the result the backend returned for it
type HistoryEntry struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"content_type"`
	Result      json.RawMessage `json:"result"`
	CreatedAt   time.Time       `json:"created_at"`
}
