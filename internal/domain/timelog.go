package domain

import "time"

// MinLogHours is the smallest loggable amount; entries grow in
// half-hour steps.
const MinLogHours = 0.5

// TimeLog records hours a user spent on a task. At most one log exists
// per (task, author) pair, guaranteed by a storage-level unique index.
type TimeLog struct {
	ID          string
	TaskID      string
	AuthorID    string
	Hours       float64
	Description string
	CreatedAt   time.Time
}
