package domain

import "time"

// DayStats aggregates the completed tasks of a single calendar day
type DayStats struct {
	Completed     int            `json:"completed"`
	Count         int            `json:"count"`
	Interrupted   int            `json:"interrupted"`
	PerProject    map[string]int `json:"per_project,omitempty"`
	TotalDuration time.Duration  `json:"total_duration"`
}

// AverageDuration returns the mean task duration, or zero when empty
func (s DayStats) AverageDuration() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

// ComputeDayStats aggregates the events that fall on the same calendar day
// as the reference time, in the reference time's location
func ComputeDayStats(events []Event, ref time.Time) DayStats {
	stats := DayStats{PerProject: make(map[string]int)}

	refYear, refMonth, refDay := ref.Date()
	for _, event := range events {
		ts := event.Timestamp.In(ref.Location())
		year, month, day := ts.Date()
		if year != refYear || month != refMonth || day != refDay {
			continue
		}

		stats.Count++
		if event.Duration != nil {
			stats.TotalDuration += *event.Duration
		}
		if event.Interrupted() {
			stats.Interrupted++
		} else if event.IsStopKind() {
			stats.Completed++
		}
		if project := event.Project(); project != "" {
			stats.PerProject[project]++
		}
	}

	return stats
}
