package models

import "time"

// Commission is an organizational group with named members.
type Commission struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User is an account that can belong to commissions.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Timezone     string `json:"timezone,omitempty"`
	PasswordHash string `json:"-"`
}

// Meeting is a scheduled event belonging to one commission.
type Meeting struct {
	ID           int64     `json:"id"`
	CommissionID int64     `json:"commissionId"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	GPS          string    `json:"gps,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	// Populated on list queries for display.
	CommissionName string `json:"commissionName,omitempty"`
}

// PV is a minutes-of-meeting document associated with one meeting.
type PV struct {
	ID        int64     `json:"id"`
	MeetingID int64     `json:"meetingId"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	// Populated on list queries for display.
	MeetingTitle   string    `json:"meetingTitle,omitempty"`
	MeetingDate    time.Time `json:"meetingDate,omitempty"`
	CommissionID   int64     `json:"commissionId,omitempty"`
	CommissionName string    `json:"commissionName,omitempty"`
}
