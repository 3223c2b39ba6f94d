package models

import "time"

// User is an account record as stored by the credential store.
// Email is kept lowercased so uniqueness is case-insensitive.
type User struct {
	ID           string    `db:"id" bson:"_id"`
	Name         string    `db:"name" bson:"name"`
	Email        string    `db:"email" bson:"email"`
	PasswordHash string    `db:"password_hash" bson:"passwordHash"`
	Role         Role      `db:"role" bson:"role"`
	Phone        string    `db:"phone" bson:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" bson:"updatedAt"`
}

// UserSummary is the public projection of a User.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Phone: u.Phone}
}
