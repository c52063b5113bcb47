package engine

import (
	"sort"
	"time"

	"github.com/Dias221467/HabitFlow/internal/models"
)

// SortLogs orders logs newest first. Entries with the same timestamp keep
// their relative order.
func SortLogs(logs []models.ActivityLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}

// FilterLogs returns the entries of the given type, or all entries when kind
// is empty.
func FilterLogs(logs []models.ActivityLog, kind models.ActivityType) []models.ActivityLog {
	if kind == "" {
		return logs
	}
	filtered := []models.ActivityLog{}
	for _, l := range logs {
		if l.Type == kind {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// DayGroup holds the entries logged on one calendar date.
type DayGroup struct {
	Date    string               `json:"date"`
	Entries []models.ActivityLog `json:"entries"`
}

// GroupByDate groups newest-first logs by the calendar date of their
// timestamp in loc. Groups come out newest first.
func GroupByDate(logs []models.ActivityLog, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.UTC
	}
	groups := []DayGroup{}
	index := map[string]int{}
	for _, l := range logs {
		date := l.Timestamp.In(loc).Format(models.DateLayout)
		i, ok := index[date]
		if !ok {
			i = len(groups)
			index[date] = i
			groups = append(groups, DayGroup{Date: date})
		}
		groups[i].Entries = append(groups[i].Entries, l)
	}
	return groups
}
