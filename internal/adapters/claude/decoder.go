package claude

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
)

// wireEvent is the newline-delimited JSON schema emitted by Claude Code
// hooks. All fields except hook_event_name are optional.
type wireEvent struct {
	Cwd            string   `json:"cwd"`
	Duration       *float64 `json:"duration"` // seconds
	HookEventName  string   `json:"hook_event_name"`
	Matcher        string   `json:"matcher"`
	Message        string   `json:"message"`
	SessionID      string   `json:"session_id"`
	StopReason     string   `json:"stop_reason"`
	TaskSummary    string   `json:"task_summary"`
	TranscriptPath string   `json:"transcript_path"`
	Timestamp      string   `json:"timestamp"`
}

// Decode parses one line of hook input into a typed event. It never fails
// outward: input that does not match the schema (invalid UTF-8 or JSON,
// missing or unknown hook_event_name, unknown enum values, unparseable
// timestamp) becomes a fallback Notification carrying the raw line, so a
// misbehaving client never silently vanishes.
func Decode(line []byte, receivedAt time.Time) domain.Event {
	event, ok := decodeStrict(line, receivedAt)
	if !ok {
		logging.Logger.Warn("Undecodable hook input, using fallback notification",
			"raw", string(line))
		return domain.NewFallbackEvent(string(line), receivedAt)
	}
	return event
}

func decodeStrict(line []byte, receivedAt time.Time) (domain.Event, bool) {
	if !utf8.Valid(line) {
		return domain.Event{}, false
	}

	var wire wireEvent
	if err := json.Unmarshal(line, &wire); err != nil {
		return domain.Event{}, false
	}

	kind := domain.EventKind(wire.HookEventName)
	if !kind.Valid() {
		return domain.Event{}, false
	}

	timestamp := receivedAt
	if wire.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, wire.Timestamp)
		if err != nil {
			return domain.Event{}, false
		}
		timestamp = parsed
	}

	event := domain.Event{
		Cwd:            wire.Cwd,
		ID:             uuid.New().String(),
		Kind:           kind,
		SessionID:      wire.SessionID,
		Timestamp:      timestamp,
		TranscriptPath: wire.TranscriptPath,
	}

	switch kind {
	case domain.KindStop, domain.KindSubagentStop:
		if wire.StopReason != "" {
			reason := domain.StopReason(wire.StopReason)
			if !reason.Valid() {
				return domain.Event{}, false
			}
			event.Stop = &domain.StopDetail{Reason: reason}
		}
	case domain.KindNotification:
		note := &domain.NoteDetail{Message: wire.Message}
		if wire.Matcher != "" {
			matcher := domain.NotificationMatcher(wire.Matcher)
			if !matcher.Valid() {
				return domain.Event{}, false
			}
			note.Matcher = &matcher
		}
		event.Note = note
	}

	if wire.TaskSummary != "" {
		event.Summary = &domain.TaskSummary{Text: wire.TaskSummary}
	}
	if wire.Duration != nil {
		duration := time.Duration(*wire.Duration * float64(time.Second))
		event.Duration = &duration
	}

	return event, true
}
