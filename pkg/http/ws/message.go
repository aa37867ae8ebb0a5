package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypePing = "ping"

	// Server -> Client
	TypeImportProgress = "import_progress"
	TypeImportComplete = "import_complete"
	TypeError          = "error"
	TypePong           = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Server Messages (outgoing)

type ImportProgressPayload struct {
	JobID     string  `json:"job_id"`
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Imported  int     `json:"imported"`
	Skipped   int     `json:"skipped"`
	Errors    int     `json:"errors"`
	Fraction  float64 `json:"fraction"`
}

type ImportCompletePayload struct {
	JobID    string `json:"job_id"`
	Total    int    `json:"total"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Errors   int    `json:"errors"`
	Level    string `json:"level"` // success, info or failure
	Message  string `json:"message"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}
