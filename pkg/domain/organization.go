package domain

import "time"

// Organization groups the systems it owns.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	// SystemIDs keeps insertion order of owned systems. It may briefly hold
	// ids of systems that were deleted individually.
	SystemIDs []string
}

// OrganizationWithSystems is an organization whose system references have
// been resolved to full records.
type OrganizationWithSystems struct {
	Organization
	Systems []*System
}
