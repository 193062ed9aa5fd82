package services

import (
	"sync"
	"time"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/ports"
)

// Hand-rolled in-memory fakes for the persistence and presentation ports.

type fakeSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]time.Time
	loadErr   error
	saveErr   error
	saveCount int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]time.Time{}}
}

func (s *fakeSessionStore) Load() (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[string]time.Time, len(s.sessions))
	for k, v := range s.sessions {
		out[k] = v
	}
	return out, nil
}

func (s *fakeSessionStore) Save(sessions map[string]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saveCount++
	s.sessions = make(map[string]time.Time, len(sessions))
	for k, v := range sessions {
		s.sessions[k] = v
	}
	return nil
}

func (s *fakeSessionStore) saved() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]time.Time, len(s.sessions))
	for k, v := range s.sessions {
		out[k] = v
	}
	return out
}

type fakeEventStore struct {
	mu        sync.Mutex
	events    []domain.Event
	meta      ports.EventLogMeta
	saveErr   error
	saveCount int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{}
}

func (s *fakeEventStore) Load() ([]domain.Event, ports.EventLogMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...), s.meta, nil
}

func (s *fakeEventStore) Save(events []domain.Event, meta ports.EventLogMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saveCount++
	s.events = append([]domain.Event(nil), events...)
	s.meta = meta
	return nil
}

func (s *fakeEventStore) saved() ([]domain.Event, ports.EventLogMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...), s.meta
}

type fakeArchive struct {
	mu       sync.Mutex
	archived []domain.Event
	err      error
}

func (a *fakeArchive) Archive(events []domain.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.archived = append(a.archived, events...)
	return nil
}

func (a *fakeArchive) List(limit int) ([]domain.Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Event(nil), a.archived...), nil
}

func (a *fakeArchive) ListForProject(project string, limit int) ([]domain.Event, error) {
	return a.List(limit)
}

func (a *fakeArchive) Close() error { return nil }

func (a *fakeArchive) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.archived)
}

type fakePresenter struct {
	mu        sync.Mutex
	presented []domain.NotificationEntry
	dismissed []string
	snapshots [][]domain.NotificationEntry
}

func (p *fakePresenter) OnPresent(entry domain.NotificationEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presented = append(p.presented, entry)
}

func (p *fakePresenter) OnDismiss(entryID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dismissed = append(p.dismissed, entryID)
}

func (p *fakePresenter) OnQueueChanged(entries []domain.NotificationEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, entries)
}

func (p *fakePresenter) presentedEvents() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Event, len(p.presented))
	for i, entry := range p.presented {
		out[i] = entry.Event
	}
	return out
}

func (p *fakePresenter) presentedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.presented)
}

func (p *fakePresenter) dismissedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.dismissed...)
}

func (p *fakePresenter) lastSnapshot() []domain.NotificationEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.snapshots) == 0 {
		return nil
	}
	return p.snapshots[len(p.snapshots)-1]
}

type fakeSummarizer struct {
	mu        sync.Mutex
	summarize func(path string) (domain.TaskSummary, error)
	calls     []string
}

func (s *fakeSummarizer) Summarize(path string) (domain.TaskSummary, error) {
	s.mu.Lock()
	s.calls = append(s.calls, path)
	fn := s.summarize
	s.mu.Unlock()
	if fn == nil {
		return domain.TaskSummary{}, nil
	}
	return fn(path)
}

func (s *fakeSummarizer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fakeStats struct {
	mu    sync.Mutex
	calls int
}

func (s *fakeStats) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

func (s *fakeStats) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeSound struct {
	mu    sync.Mutex
	kinds []domain.EventKind
}

func (s *fakeSound) PlaySound() error { return nil }

func (s *fakeSound) PlaySoundForEvent(kind domain.EventKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = append(s.kinds, kind)
	return nil
}

func (s *fakeSound) playCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.kinds)
}
