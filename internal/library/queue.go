package library

import "time"

// EntityKind names the entity type behind a QueueItem.
type EntityKind string

const (
	KindVideoData EntityKind = "VIDEO_DATA"
	KindSeason    EntityKind = "SEASON"
	KindSeries    EntityKind = "SERIES"
)

// QueueItem is one entity due for a metadata scan.
type QueueItem struct {
	ID            int64      `json:"id"`
	Kind          EntityKind `json:"kind"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

// CompareQueueItems orders items by ascending scheduled date. Items without
// a date sort after dated ones and compare equal to each other.
func CompareQueueItems(a, b QueueItem) int {
	switch {
	case a.ScheduledDate == nil && b.ScheduledDate == nil:
		return 0
	case a.ScheduledDate == nil:
		return 1
	case b.ScheduledDate == nil:
		return -1
	}
	return a.ScheduledDate.Compare(*b.ScheduledDate)
}
