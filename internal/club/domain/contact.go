package domain

import "time"

// ContactStatus tracks where a contact request sits in the review queue.
type ContactStatus string

const (
	ContactPending  ContactStatus = "PENDING"
	ContactApproved ContactStatus = "APPROVED"
	ContactRejected ContactStatus = "REJECTED"
)

// ContactRequest is a prospective member's application from the public
// contact form. Approval issues an invite to the submitted email.
type ContactRequest struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	Status    ContactStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
