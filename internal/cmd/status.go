package cmd

import (
	"fmt"
	"time"

	"github.com/renato0307/vigia/internal/services"
)

// StatusCmd displays active agent counts, single line for status bars
type StatusCmd struct{}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	settings := cli.Container.Settings

	tracker := services.NewTracker(cli.Container.SessionStore, settings.TrackerFlushInterval())
	defer tracker.Close()

	eventLog := services.NewEventLog(cli.Container.EventStore, nil, settings.LogFlushInterval())
	defer eventLog.Close()

	stats := eventLog.TodayStats()
	fmt.Printf("agents:%d done:%d avg:%s",
		tracker.SessionCount(),
		stats.Completed,
		stats.AverageDuration().Round(time.Second))
	return nil
}
