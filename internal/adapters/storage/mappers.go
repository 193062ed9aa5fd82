package storage

import (
	"time"

	"github.com/renato0307/vigia/internal/domain"
)

// toModel converts a domain event to its archive row
func toModel(event domain.Event, archivedAt time.Time) ArchivedEventModel {
	model := ArchivedEventModel{
		ArchivedAt:     archivedAt,
		Cwd:            event.Cwd,
		EventID:        event.ID,
		Kind:           string(event.Kind),
		Project:        event.Project(),
		SessionID:      event.SessionID,
		Timestamp:      event.Timestamp.UTC(),
		TranscriptPath: event.TranscriptPath,
	}

	if event.Duration != nil {
		nanos := int64(*event.Duration)
		model.DurationNanos = &nanos
	}
	if event.Stop != nil {
		model.StopReason = string(event.Stop.Reason)
	}
	if event.Note != nil {
		model.Message = event.Note.Message
	}
	if event.Summary != nil {
		model.SummaryText = event.Summary.Text
		model.UserPrompt = event.Summary.UserPrompt
	}

	return model
}

// toDomain converts an archive row back to a domain event
func toDomain(model ArchivedEventModel) domain.Event {
	event := domain.Event{
		Cwd:            model.Cwd,
		ID:             model.EventID,
		Kind:           domain.EventKind(model.Kind),
		SessionID:      model.SessionID,
		Timestamp:      model.Timestamp,
		TranscriptPath: model.TranscriptPath,
	}

	if model.DurationNanos != nil {
		duration := time.Duration(*model.DurationNanos)
		event.Duration = &duration
	}
	if model.StopReason != "" {
		event.Stop = &domain.StopDetail{Reason: domain.StopReason(model.StopReason)}
	}
	if model.Message != "" && event.Kind == domain.KindNotification {
		event.Note = &domain.NoteDetail{Message: model.Message}
	}
	if model.SummaryText != "" || model.UserPrompt != "" {
		event.Summary = &domain.TaskSummary{
			Text:       model.SummaryText,
			UserPrompt: model.UserPrompt,
		}
	}

	return event
}
