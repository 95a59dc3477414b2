package models

import "time"

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Booking lifecycle statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Defaults applied when an admin creates a booking without filling every field.
const (
	DefaultHostName = "장영하"
	DefaultLocation = "구글스타트업캠퍼스 서울"
	DefaultTitle    = "커피챗 세션"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id" bson:"id"`
	DisplayName  string    `json:"displayName" bson:"displayName"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

type Booking struct {
	ID        string     `json:"id" bson:"id"`
	UserID    string     `json:"userId" bson:"userId"`
	UserName  string     `json:"userName" bson:"userName"`
	UserPhone string     `json:"userPhone,omitempty" bson:"userPhone,omitempty"`
	HostID    string     `json:"hostId,omitempty" bson:"hostId,omitempty"`
	HostName  string     `json:"hostName,omitempty" bson:"hostName,omitempty"`
	Location  string     `json:"location,omitempty" bson:"location,omitempty"`
	Date      string     `json:"date" bson:"date"` // YYYY-MM-DD
	Time      string     `json:"time" bson:"time"` // HH:MM
	Status    string     `json:"status" bson:"status"`
	Notes     string     `json:"notes,omitempty" bson:"notes,omitempty"`
	Title     string     `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Active reports whether the booking still occupies its slot.
func (b Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Locked reports whether the booking's date/time may no longer be edited.
func (b Booking) Locked() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// SlotDay is one document of the availableTimeSlots collection: the half-hour
// labels an admin offers on a calendar date. A missing document and an empty
// slots array mean the same thing: nothing bookable that day.
type SlotDay struct {
	Date  string   `json:"date" bson:"date"`
	Slots []string `json:"slots" bson:"slots"`
}
