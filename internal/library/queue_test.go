package library

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareQueueItems(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	dated := func(t time.Time) QueueItem { return QueueItem{ScheduledDate: &t} }
	undated := QueueItem{}

	tests := []struct {
		name string
		a, b QueueItem
		want int
	}{
		{"earlier first", dated(early), dated(late), -1},
		{"later second", dated(late), dated(early), 1},
		{"same date", dated(early), dated(early), 0},
		{"dated before undated", dated(late), undated, -1},
		{"undated after dated", undated, dated(early), 1},
		{"two undated equal", undated, undated, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareQueueItems(tt.a, tt.b))
		})
	}
}

func TestCompareQueueItems_Sort(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int) *time.Time {
		t := base.Add(time.Duration(h) * time.Hour)
		return &t
	}

	items := []QueueItem{
		{ID: 1},
		{ID: 2, ScheduledDate: at(3)},
		{ID: 3},
		{ID: 4, ScheduledDate: at(1)},
		{ID: 5, ScheduledDate: at(2)},
	}
	slices.SortStableFunc(items, CompareQueueItems)

	var ids []int64
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int64{4, 5, 2, 1, 3}, ids)
}
