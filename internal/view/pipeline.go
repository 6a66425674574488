// Package view computes the display projection of the ledger: filter by
// search query, sort most-recent-first, group by entry date. Everything here
// is a pure function over the record collection; nothing is cached and
// nothing mutates the input.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/mhashir/textrack/internal/domain/models"
)

const entryDateLayout = "2006-01-02"

// recentActivityWindow bounds the "recent activity" dashboard stat.
const recentActivityWindow = 24 * time.Hour

// Filter keeps records where the lower-cased query is a substring of any of
// the four detail fields, the id, or the entry date. An empty query matches
// everything.
func Filter(records []models.Record, query string) []models.Record {
	q := strings.ToLower(query)
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if q == "" || matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Record, q string) bool {
	for _, field := range []string{
		r.DoriDetail,
		r.WarpinDetail,
		r.BheemDetail,
		r.DeliveryDetail,
		r.ID,
		r.EntryDate,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Sort orders records by entry date descending, then creation time
// descending. The date is a fixed-width YYYY-MM-DD string, so lexicographic
// comparison is chronological. Records sharing both keys keep their
// collection order (the sort is stable), which is all the determinism the
// ledger promises at millisecond resolution.
func Sort(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EntryDate != out[j].EntryDate {
			return out[i].EntryDate > out[j].EntryDate
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})

	return out
}

// Visible is the flat projection the exporter and the record table consume:
// filtered then sorted, most recent day first.
func Visible(records []models.Record, query string) []models.Record {
	return Sort(Filter(records, query))
}

// Group partitions an already-sorted sequence into day sections. Group
// order follows the input, so sections appear most-recent-date-first and
// entries inside a section keep the sorted order. A date that fails to
// parse keeps its raw string as the label rather than being dropped.
func Group(sorted []models.Record) []models.DayGroup {
	var groups []models.DayGroup
	index := map[string]int{}

	for _, r := range sorted {
		i, ok := index[r.EntryDate]
		if !ok {
			i = len(groups)
			index[r.EntryDate] = i
			groups = append(groups, models.DayGroup{
				Label: DateLabel(r.EntryDate),
				Date:  r.EntryDate,
			})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	return groups
}

// DateLabel renders an entry date as a full weekday/month/day/year heading,
// e.g. "Saturday, October 26, 2024". The same date always yields the same
// label.
func DateLabel(entryDate string) string {
	t, err := time.Parse(entryDateLayout, entryDate)
	if err != nil {
		return entryDate
	}
	return t.Format("Monday, January 2, 2006")
}

// Stats summarizes the full (unfiltered) collection for the dashboard.
// Recent activity counts records created or edited within the last 24 hours.
func Stats(records []models.Record, now time.Time) models.InventoryStats {
	cutoff := now.Add(-recentActivityWindow).UnixMilli()

	stats := models.InventoryStats{TotalRecords: len(records)}
	for _, r := range records {
		if r.UpdatedAt >= cutoff {
			stats.RecentActivity++
		}
	}
	return stats
}
