package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhashir/textrack/internal/domain/models"
	"github.com/mhashir/textrack/internal/view"
)

func rec(id, date string, createdAt int64) models.Record {
	return models.Record{
		ID:             id,
		DoriDetail:     "Dori for " + id,
		WarpinDetail:   "Warpin for " + id,
		BheemDetail:    "Bheem for " + id,
		DeliveryDetail: "Delivery for " + id,
		EntryDate:      date,
		CreatedBy:      "user_alpha",
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestFilter_EmptyQueryMatchesEverything(t *testing.T) {
	records := []models.Record{
		rec("aaa", "2024-10-25", 1),
		rec("bbb", "2024-10-26", 2),
	}

	assert.Len(t, view.Filter(records, ""), 2)
}

func TestFilter_IsCaseInsensitiveAcrossFields(t *testing.T) {
	records := []models.Record{
		{ID: "abc123", DoriDetail: "Golden Zari", EntryDate: "2024-10-25"},
		{ID: "def456", WarpinDetail: "section B warp", EntryDate: "2024-10-26"},
	}

	byDetail := view.Filter(records, "gOlDeN")
	require.Len(t, byDetail, 1)
	assert.Equal(t, "abc123", byDetail[0].ID)

	byID := view.Filter(records, "DEF4")
	require.Len(t, byID, 1)
	assert.Equal(t, "def456", byID[0].ID)

	byDate := view.Filter(records, "10-26")
	require.Len(t, byDate, 1)
	assert.Equal(t, "def456", byDate[0].ID)
}

func TestFilter_NoMatchYieldsEmpty(t *testing.T) {
	records := []models.Record{rec("aaa", "2024-10-25", 1)}
	assert.Empty(t, view.Filter(records, "zzz-not-there"))
}

func TestSort_MostRecentDayFirstThenNewestCreation(t *testing.T) {
	records := []models.Record{
		rec("old-day", "2024-10-25", 500),
		rec("new-day-early", "2024-10-26", 100),
		rec("new-day-late", "2024-10-26", 200),
	}

	sorted := view.Sort(records)
	require.Len(t, sorted, 3)
	assert.Equal(t, "new-day-late", sorted[0].ID)
	assert.Equal(t, "new-day-early", sorted[1].ID)
	assert.Equal(t, "old-day", sorted[2].ID)

	// Insertion order must not matter.
	reversed := view.Sort([]models.Record{records[2], records[1], records[0]})
	assert.Equal(t, sorted, reversed)
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	records := []models.Record{
		rec("a", "2024-10-25", 1),
		rec("b", "2024-10-26", 2),
	}

	view.Sort(records)
	assert.Equal(t, "a", records[0].ID)
}

func TestGroup_OneSectionPerDateInSortedOrder(t *testing.T) {
	sorted := view.Sort([]models.Record{
		rec("d1-a", "2024-10-26", 300),
		rec("d1-b", "2024-10-26", 200),
		rec("d2-a", "2024-10-25", 100),
	})

	groups := view.Group(sorted)
	require.Len(t, groups, 2)

	assert.Equal(t, "2024-10-26", groups[0].Date)
	assert.Equal(t, "Saturday, October 26, 2024", groups[0].Label)
	require.Len(t, groups[0].Records, 2)
	assert.Equal(t, "d1-a", groups[0].Records[0].ID)
	assert.Equal(t, "d1-b", groups[0].Records[1].ID)

	assert.Equal(t, "2024-10-25", groups[1].Date)
	require.Len(t, groups[1].Records, 1)
	assert.Equal(t, "d2-a", groups[1].Records[0].ID)
}

func TestDateLabel_UnparseableDateFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "not-a-date", view.DateLabel("not-a-date"))
}

func TestStats_CountsRecentActivityWithin24h(t *testing.T) {
	now := time.Date(2024, time.October, 26, 12, 0, 0, 0, time.UTC)

	fresh := rec("fresh", "2024-10-26", now.Add(-1*time.Hour).UnixMilli())
	stale := rec("stale", "2024-10-01", now.Add(-48*time.Hour).UnixMilli())

	stats := view.Stats([]models.Record{fresh, stale}, now)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.RecentActivity)
}
