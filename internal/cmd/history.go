package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/services"
)

// HistoryCmd shows the completed-task history
type HistoryCmd struct {
	Archived bool   `help:"Query the long-term archive instead of the live log"`
	Format   string `help:"Output format (table or json)" default:"table" enum:"table,json" short:"f"`
	Limit    int    `help:"Maximum number of results" default:"20" short:"l"`
	Project  string `help:"Filter by project name" short:"p"`
	Today    bool   `help:"Only today's events"`
}

// Run executes the history command
func (h *HistoryCmd) Run(cli *CLI) error {
	events, err := h.query(cli)
	if err != nil {
		return err
	}
	if h.Limit > 0 && len(events) > h.Limit {
		events = events[:h.Limit]
	}

	switch h.Format {
	case "json":
		return renderJSON(events)
	default:
		renderTable(events)
		return nil
	}
}

func (h *HistoryCmd) query(cli *CLI) ([]domain.Event, error) {
	if h.Archived {
		archive, err := cli.Container.Archive()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		if h.Project != "" {
			return archive.ListForProject(h.Project, h.Limit)
		}
		return archive.List(h.Limit)
	}

	settings := cli.Container.Settings
	eventLog := services.NewEventLog(cli.Container.EventStore, nil, settings.LogFlushInterval())
	defer eventLog.Close()

	switch {
	case h.Today && h.Project != "":
		var filtered []domain.Event
		for _, event := range eventLog.EventsToday() {
			if event.Project() == h.Project {
				filtered = append(filtered, event)
			}
		}
		return filtered, nil
	case h.Today:
		return eventLog.EventsToday(), nil
	case h.Project != "":
		return eventLog.EventsForProject(h.Project), nil
	default:
		return eventLog.Recent(h.Limit), nil
	}
}

// renderTable displays events in table format, newest first
func renderTable(events []domain.Event) {
	if len(events) == 0 {
		fmt.Println("No events found.")
		return
	}

	fmt.Println("When                 Project          Kind          Duration  Summary")
	fmt.Println(strings.Repeat("─", 100))

	for _, event := range events {
		project := event.Project()
		if project == "" {
			project = "-"
		}
		if len(project) > 16 {
			project = project[:13] + "..."
		}

		duration := "-"
		if event.Duration != nil {
			duration = event.Duration.Round(time.Second).String()
		}

		summary := event.DisplayMessage()
		if event.Summary != nil && event.Summary.Text != "" {
			summary = event.Summary.Text
		}
		if len(summary) > 40 {
			summary = summary[:37] + "..."
		}

		fmt.Printf("%-20s %-16s %-13s %-9s %s\n",
			event.Timestamp.Format("2006-01-02 15:04:05"),
			project,
			event.Kind,
			duration,
			summary)
	}
}

// renderJSON displays events as a JSON array
func renderJSON(events []domain.Event) error {
	if events == nil {
		events = []domain.Event{}
	}
	out, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
