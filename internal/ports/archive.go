package ports

import "github.com/renato0307/vigia/internal/domain"

// EventArchive is the long-term store for events swept out of the live
// event log by the retention cleanup
type EventArchive interface {
	// Archive stores swept events; already-archived IDs are skipped
	Archive(events []domain.Event) error

	// List returns archived events, newest first
	List(limit int) ([]domain.Event, error)

	// ListForProject returns archived events for one project, newest first
	ListForProject(project string, limit int) ([]domain.Event, error)

	// Close releases the underlying database
	Close() error
}
