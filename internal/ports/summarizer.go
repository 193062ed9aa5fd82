package ports

import "github.com/renato0307/vigia/internal/domain"

// TranscriptSummarizer digests a session transcript into a task summary.
// Failures degrade gracefully: the caller proceeds without a summary.
type TranscriptSummarizer interface {
	Summarize(path string) (domain.TaskSummary, error)
}

// StatsRefresher recomputes derived usage statistics. Invoked
// fire-and-forget; failures leave stats stale.
type StatsRefresher interface {
	Refresh()
}
