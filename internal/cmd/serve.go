package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
	"github.com/renato0307/vigia/internal/ports"
	"github.com/renato0307/vigia/internal/server"
	"github.com/renato0307/vigia/internal/services"
	"github.com/renato0307/vigia/internal/ui"
)

// ServeCmd runs the notification daemon
type ServeCmd struct {
	Socket string `help:"Override the daemon socket path"`
	UI     bool   `help:"Show the interactive notification board"`
}

// Run starts the daemon and blocks until shutdown
func (s *ServeCmd) Run(cli *CLI) error {
	settings := cli.Container.Settings

	socketPath := settings.SocketPathOrDefault()
	if s.Socket != "" {
		socketPath = s.Socket
	}

	tracker := services.NewTracker(cli.Container.SessionStore, settings.TrackerFlushInterval())

	// Long-term history keeps working without the archive; retention
	// sweeps just stop archiving.
	archive, err := cli.Container.Archive()
	if err != nil {
		logging.Logger.Warn("History archive unavailable", "error", err)
		archive = nil
	}
	eventLog := services.NewEventLog(cli.Container.EventStore, archive, settings.LogFlushInterval())

	// Startup cleanup sweep
	if removed := tracker.CleanupStale(settings.SessionMaxAge(), time.Now()); removed > 0 {
		logging.Logger.Info("Removed stale sessions at startup", "count", removed)
	}
	eventLog.Cleanup(settings.Retention())

	var presenter ports.Presenter
	var program *tea.Program
	var queue *services.Queue
	if s.UI {
		// The board dismisses through the queue and the queue presents
		// through the board, so the board gets a late-bound queue handle.
		board := ui.NewModel(&queueDismisser{queue: &queue})
		program = tea.NewProgram(board, tea.WithAltScreen())
		presenter = ui.NewBoardPresenter(program)
	} else {
		presenter = &logPresenter{}
	}
	queue = services.NewQueue(settings.QueueCapacityOrDefault(), settings.IdleReminderDelay(), presenter)

	var sound ports.SoundPlayer
	if settings.SoundEnabledOrDefault() {
		sound = cli.Container.SoundPlayer
	}

	correlator := services.NewCorrelator(
		tracker,
		eventLog,
		queue,
		cli.Container.Summarizer,
		&statsLogger{log: eventLog},
		sound,
	)
	correlator.Start()

	srv := server.New(socketPath, correlator)
	if err := srv.Start(); err != nil {
		correlator.Close()
		return err
	}

	if s.UI {
		if _, err := program.Run(); err != nil {
			logging.Logger.Error("Notification board failed", "error", err)
		}
	} else {
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		<-done
	}

	logging.Logger.Info("Shutting down")

	// Stop accepting and drain in-flight connections, then drain the
	// funnel, then flush both stores, then release the timer and socket
	// artifacts. Partial shutdown loses data; the order matters.
	srv.Stop()
	correlator.Close()
	if err := tracker.Close(); err != nil {
		logging.Logger.Error("Failed to flush session state on shutdown", "error", err)
	}
	if err := eventLog.Close(); err != nil {
		logging.Logger.Error("Failed to flush event log on shutdown", "error", err)
	}
	queue.Close()

	logging.Logger.Info("Shutdown complete")
	return nil
}

// queueDismisser defers the queue reference until after construction, so
// the board and the queue can point at each other.
type queueDismisser struct {
	queue **services.Queue
}

func (d *queueDismisser) Dismiss(entryID string) {
	if q := *d.queue; q != nil {
		q.Dismiss(entryID)
	}
}

// logPresenter is the headless presenter: one stdout line per
// notification, mirrored to the structured log.
type logPresenter struct{}

func (logPresenter) OnPresent(entry domain.NotificationEntry) {
	event := entry.Event
	line := fmt.Sprintf("[%s] %s", entry.DisplayedAt.Format("15:04:05"), event.DisplayMessage())
	if project := event.Project(); project != "" {
		line = fmt.Sprintf("[%s] %s: %s", entry.DisplayedAt.Format("15:04:05"), project, event.DisplayMessage())
	}
	fmt.Println(line)
	logging.Logger.Info("Notification presented",
		"entry_id", entry.ID,
		"kind", event.Kind,
		"project", event.Project())
}

func (logPresenter) OnDismiss(entryID string) {
	logging.Logger.Debug("Notification dismissed", "entry_id", entryID)
}

func (logPresenter) OnQueueChanged(entries []domain.NotificationEntry) {
	logging.Logger.Debug("Notification queue changed", "size", len(entries))
}

// statsLogger recomputes the day aggregate when a session starts; the
// numbers surface through vigia history and the debug log.
type statsLogger struct {
	log *services.EventLog
}

func (s *statsLogger) Refresh() {
	stats := s.log.TodayStats()
	logging.Logger.Debug("Refreshed day stats",
		"count", stats.Count,
		"completed", stats.Completed,
		"interrupted", stats.Interrupted,
		"total_duration", stats.TotalDuration)
}
