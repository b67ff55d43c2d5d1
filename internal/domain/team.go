package domain

import "time"

// Team groups developers under a single manager. A manager leads at
// most one team and a developer belongs to at most one team; both are
// enforced as storage constraints.
type Team struct {
	ID        string
	Name      string
	ManagerID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
