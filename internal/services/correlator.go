package services

import (
	"sync"
	"time"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
)

type commandKind int

const (
	cmdEvent commandKind = iota
	cmdSummaryDone
	cmdIdleFired
	cmdShutdown
)

// command is the funnel message. Connection workers, the summarizer
// goroutines and the idle timer all post commands here; a single consumer
// goroutine applies them one at a time, so decisions observe a total order.
type command struct {
	kind    commandKind
	event   domain.Event
	summary *domain.TaskSummary
}

// Correlator is the decision core: it consumes decoded events, maintains
// session/subagent state through the tracker, appends to the event log and
// decides whether each Stop is presented now, deferred behind active
// subagents, or suppressed.
type Correlator struct {
	tracker    *Tracker
	log        *EventLog
	queue      *Queue
	summarizer ports.TranscriptSummarizer
	stats      ports.StatsRefresher
	sound      ports.SoundPlayer

	cmds chan command
	done chan struct{}

	mu     sync.Mutex
	closed bool

	// Loop-owned state, touched only by the consumer goroutine
	pendingDeferred  *domain.Event
	pendingSummaries int
	draining         bool
}

// NewCorrelator wires the decision core. stats and sound may be nil.
func NewCorrelator(
	tracker *Tracker,
	log *EventLog,
	queue *Queue,
	summarizer ports.TranscriptSummarizer,
	stats ports.StatsRefresher,
	sound ports.SoundPlayer,
) *Correlator {
	c := &Correlator{
		tracker:    tracker,
		log:        log,
		queue:      queue,
		summarizer: summarizer,
		stats:      stats,
		sound:      sound,
		cmds:       make(chan command, 64),
		done:       make(chan struct{}),
	}
	queue.SetIdleReminderFunc(c.onIdleFired)
	return c
}

// Start launches the consumer goroutine
func (c *Correlator) Start() {
	go c.loop()
}

// Submit hands an external event to the funnel. Events submitted after
// Close are dropped.
func (c *Correlator) Submit(event domain.Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		logging.Logger.Warn("Dropping event submitted after shutdown", "event_id", event.ID)
		return
	}
	c.mu.Unlock()
	c.cmds <- command{kind: cmdEvent, event: event}
}

// Close stops accepting external events, waits for in-flight summaries to
// drain through the funnel, then stops the consumer goroutine.
func (c *Correlator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cmds <- command{kind: cmdShutdown}
	<-c.done
}

func (c *Correlator) loop() {
	defer close(c.done)
	for cmd := range c.cmds {
		switch cmd.kind {
		case cmdEvent:
			c.handleEvent(cmd.event)
		case cmdSummaryDone:
			c.handleSummaryDone(cmd.event, cmd.summary)
		case cmdIdleFired:
			c.handleIdleFired(cmd.event)
		case cmdShutdown:
			if c.pendingSummaries == 0 {
				return
			}
			c.draining = true
		}
		if c.draining && c.pendingSummaries == 0 {
			return
		}
	}
}

// handleEvent applies the per-event decision steps in order
func (c *Correlator) handleEvent(event domain.Event) {
	// Any activity counts as not idle
	c.queue.DisarmIdleReminder()

	// An event from an unrecognized session is presumed to come from a
	// subagent spawned by a tracked one.
	firstSighting := false
	if event.Kind != domain.KindSessionStart &&
		event.SessionID != "" &&
		!c.tracker.IsTracking(event.SessionID) {
		firstSighting = c.tracker.RecordSubagentStart(event.SessionID)
		if firstSighting {
			logging.Logger.Debug("Implicit subagent detected", "session_id", event.SessionID)
		}
	}

	switch event.Kind {
	case domain.KindSessionStart:
		c.tracker.RecordStart(event.SessionID, event.Timestamp)
		if c.stats != nil {
			go c.stats.Refresh()
		}

	case domain.KindNotification:
		if event.IsIdlePrompt() {
			// External idle heartbeat; the idle-reminder timer is the
			// only path that surfaces idleness.
			logging.Logger.Debug("Suppressed idle prompt", "session_id", event.SessionID)
			return
		}
		if firstSighting {
			// First contact from this session is subagent activity, not a
			// completion signal; only a known subagent is completed by it.
			return
		}
		c.handleSubagentDone(event.SessionID)

	case domain.KindSubagentStop:
		c.handleSubagentDone(event.SessionID)

	case domain.KindStop:
		c.handleStop(event)
	}
}

// handleSubagentDone marks a subagent finished and releases the deferred
// Stop once the last one drains.
func (c *Correlator) handleSubagentDone(sessionID string) {
	c.tracker.RecordSubagentStop(sessionID)
	// Covers a subagent that was erroneously tracked as a main session
	c.tracker.ClearSession(sessionID)

	if c.tracker.ActiveSubagentCount() == 0 && c.pendingDeferred != nil {
		released := *c.pendingDeferred
		c.pendingDeferred = nil
		logging.Logger.Debug("Releasing deferred stop", "event_id", released.ID)
		c.present(released)
	}
}

func (c *Correlator) handleStop(event domain.Event) {
	if duration, ok := c.tracker.Duration(event.SessionID, event.Timestamp); ok {
		event.Duration = &duration
	}
	if !event.Interrupted() {
		c.tracker.ClearSession(event.SessionID)
	}

	if event.Summary == nil && event.TranscriptPath != "" {
		// Summarize off-loop; the completion re-enters the funnel so the
		// defer decision still happens in total order.
		c.pendingSummaries++
		go c.summarize(event)
		return
	}
	c.finishStop(event)
}

func (c *Correlator) summarize(event domain.Event) {
	summary, err := c.summarizer.Summarize(event.TranscriptPath)
	var result *domain.TaskSummary
	if err != nil {
		logging.Logger.Warn("Transcript summarization failed",
			"transcript_path", event.TranscriptPath, "error", err)
	} else {
		result = &summary
	}
	c.cmds <- command{kind: cmdSummaryDone, event: event, summary: result}
}

func (c *Correlator) handleSummaryDone(event domain.Event, summary *domain.TaskSummary) {
	c.pendingSummaries--
	event.Summary = summary
	c.finishStop(event)
}

// finishStop logs the enriched Stop and makes the defer decision
func (c *Correlator) finishStop(event domain.Event) {
	c.log.Save(event)

	if event.Interrupted() {
		// The user needs to know right away
		c.present(event)
		return
	}
	if c.tracker.ActiveSubagentCount() > 0 {
		if c.pendingDeferred != nil {
			logging.Logger.Debug("Replacing deferred stop", "event_id", c.pendingDeferred.ID)
		}
		c.pendingDeferred = &event
		return
	}
	c.present(event)
}

func (c *Correlator) handleIdleFired(event domain.Event) {
	// Synthesized internally; bypasses idle-prompt suppression
	c.present(event)
}

func (c *Correlator) present(event domain.Event) {
	c.queue.Present(event)
	if c.sound != nil {
		if err := c.sound.PlaySoundForEvent(event.Kind); err != nil {
			logging.Logger.Debug("Sound playback failed", "error", err)
		}
	}
}

func (c *Correlator) onIdleFired() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.cmds <- command{kind: cmdIdleFired, event: domain.NewIdleReminder(time.Now())}
}
