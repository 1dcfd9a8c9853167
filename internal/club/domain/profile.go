package domain

import "time"

// Profile holds the member-supplied fields written at activation. Owned
// exclusively by its Identity and destroyed with it.
type Profile struct {
	IdentityID     string
	Address        string
	City           string
	Bio            string
	FavoriteMarque string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
