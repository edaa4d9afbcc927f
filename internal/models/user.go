package models

import "time"

type User struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contactNumber"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProfilePatch lists the profile fields a user may edit; nil means unchanged.
type ProfilePatch struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Username      *string `json:"username"`
	Email         *string `json:"email"`
	ContactNumber *string `json:"contactNumber"`
}

func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Username == nil && p.Email == nil && p.ContactNumber == nil
}
