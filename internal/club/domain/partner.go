package domain

import "time"

// Partner is a directory entry for a club sponsor or service partner.
type Partner struct {
	ID        string
	Name      string
	Category  string
	URL       string
	Blurb     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
