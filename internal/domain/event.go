package domain

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies which Claude Code hook fired
type EventKind string

const (
	KindSessionStart EventKind = "SessionStart"
	KindStop         EventKind = "Stop"
	KindSubagentStop EventKind = "SubagentStop"
	KindNotification EventKind = "Notification"
)

// Valid reports whether the kind is one of the known hook event names
func (k EventKind) Valid() bool {
	switch k {
	case KindSessionStart, KindStop, KindSubagentStop, KindNotification:
		return true
	}
	return false
}

// StopReason explains why a Stop or SubagentStop hook fired
type StopReason string

const (
	ReasonEndTurn   StopReason = "end_turn"
	ReasonStopTool  StopReason = "stop_tool"
	ReasonMaxTurns  StopReason = "max_turns"
	ReasonInterrupt StopReason = "interrupt"
)

// Valid reports whether the reason is a known stop reason
func (r StopReason) Valid() bool {
	switch r {
	case ReasonEndTurn, ReasonStopTool, ReasonMaxTurns, ReasonInterrupt:
		return true
	}
	return false
}

// NotificationMatcher identifies which hook matcher produced a Notification
type NotificationMatcher string

const (
	MatcherPermissionPrompt NotificationMatcher = "permission_prompt"
	MatcherIdlePrompt       NotificationMatcher = "idle_prompt"
)

// Valid reports whether the matcher is a known notification matcher
func (m NotificationMatcher) Valid() bool {
	switch m {
	case MatcherPermissionPrompt, MatcherIdlePrompt:
		return true
	}
	return false
}

// StopDetail carries the fields only present on Stop/SubagentStop events
type StopDetail struct {
	Reason StopReason `json:"reason"`
}

// NoteDetail carries the fields only present on Notification events
type NoteDetail struct {
	Matcher *NotificationMatcher `json:"matcher,omitempty"`
	Message string               `json:"message,omitempty"`
}

// TaskSummary is the summarizer's digest of a session transcript
type TaskSummary struct {
	FirstTimestamp *time.Time `json:"first_timestamp,omitempty"`
	Text           string     `json:"text,omitempty"`
	UserPrompt     string     `json:"user_prompt,omitempty"`
}

// Event is an immutable record of one hook firing. Kind determines which
// detail struct is set: Stop for Stop/SubagentStop, Note for Notification.
// A SessionStart carries neither. Duration and Summary are enrichment
// fields filled in by the correlator before the event is logged.
type Event struct {
	Cwd            string         `json:"cwd,omitempty"`
	Duration       *time.Duration `json:"duration,omitempty"`
	ID             string         `json:"id"`
	Kind           EventKind      `json:"kind"`
	Note           *NoteDetail    `json:"note,omitempty"`
	SessionID      string         `json:"session_id,omitempty"`
	Stop           *StopDetail    `json:"stop,omitempty"`
	Summary        *TaskSummary   `json:"summary,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
}

// IsStopKind reports whether the event is a Stop or SubagentStop
func (e Event) IsStopKind() bool {
	return e.Kind == KindStop || e.Kind == KindSubagentStop
}

// Interrupted reports whether the event is a Stop caused by a user interrupt
func (e Event) Interrupted() bool {
	return e.Stop != nil && e.Stop.Reason == ReasonInterrupt
}

// IsIdlePrompt reports whether the event is a Notification from the
// idle prompt matcher
func (e Event) IsIdlePrompt() bool {
	return e.Kind == KindNotification && e.Note != nil &&
		e.Note.Matcher != nil && *e.Note.Matcher == MatcherIdlePrompt
}

// Project returns a short project label derived from the working directory
func (e Event) Project() string {
	if e.Cwd == "" {
		return ""
	}
	return filepath.Base(e.Cwd)
}

// Message returns the free-text message of a Notification event, if any
func (e Event) Message() string {
	if e.Note == nil {
		return ""
	}
	return e.Note.Message
}

// DisplayMessage returns the text shown when the event is presented
func (e Event) DisplayMessage() string {
	if m := e.Message(); m != "" {
		return m
	}
	switch {
	case e.Interrupted():
		return "Task interrupted"
	case e.IsStopKind():
		return "Task completed"
	}
	return ""
}

// NewFallbackEvent wraps an undecodable input line as a best-effort
// Notification so a misbehaving client never silently vanishes
func NewFallbackEvent(raw string, receivedAt time.Time) Event {
	return Event{
		ID:        uuid.New().String(),
		Kind:      KindNotification,
		Note:      &NoteDetail{Message: raw},
		Timestamp: receivedAt,
	}
}

// NewIdleReminder synthesizes the internal notification presented when no
// activity followed a completed task within the reminder delay
func NewIdleReminder(at time.Time) Event {
	matcher := MatcherIdlePrompt
	return Event{
		ID:        uuid.New().String(),
		Kind:      KindNotification,
		Note:      &NoteDetail{Matcher: &matcher, Message: "Claude is waiting for input"},
		Timestamp: at,
	}
}
