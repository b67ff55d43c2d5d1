package domain

import "time"

// Project is the domain model for a project. Visible to every
// authenticated role; mutable by admins only.
type Project struct {
	ID          string
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	OwnerID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
