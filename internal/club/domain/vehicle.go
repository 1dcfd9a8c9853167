package domain

import "time"

// Vehicle is a garage entry. PhotoKey references an object in photo storage
// and is empty until a photo has been uploaded.
type Vehicle struct {
	ID          string
	OwnerID     string
	Make        string
	Model       string
	Year        int
	Description string
	PhotoKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
