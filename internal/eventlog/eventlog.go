package eventlog

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/danielpatrickdp/conscious-engine/internal/engine"
)

// #region recorder

// Recorder is an engine observer that appends every event to the event_log
// table. Insert failures are logged and swallowed: durability of the event
// stream must never stall a tick.
type Recorder struct {
	db *sql.DB
}

// NewRecorder wraps an open database (the persist store owns the schema).
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// HandleEvent implements engine.Observer.
func (r *Recorder) HandleEvent(ev engine.Event) {
	payload, err := marshalPayload(ev)
	if err != nil {
		log.Printf("[EVENTLOG] marshal %s: %v", ev.Kind, err)
		return
	}

	_, err = r.db.Exec(
		`INSERT INTO event_log (kind, payload_json, created_at) VALUES (?, ?, ?)`,
		string(ev.Kind), nullIfEmpty(payload), ev.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Printf("[EVENTLOG] insert %s: %v", ev.Kind, err)
	}
}

// #endregion recorder

// #region payload

// marshalPayload serializes the populated payload field for the event kind.
func marshalPayload(ev engine.Event) (string, error) {
	var payload interface{}
	switch ev.Kind {
	case engine.EventStateTransitioned:
		payload = ev.Transition
	case engine.EventWinnerSelected:
		payload = ev.Winner
	case engine.EventReflectionTriggered:
		payload = ev.Trigger
	case engine.EventConflictDetected:
		payload = ev.Conflict
	}
	if payload == nil {
		return "", nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion payload
