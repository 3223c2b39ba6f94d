// Package models holds the CLI's view of API payloads.
package models

import (
	"net/url"
	"strconv"
	"time"
)

const (
	RoleStudent = "Student"
	RoleTutor   = "Tutor"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Post struct {
	ID               string    `json:"id"`
	Subject          string    `json:"subject"`
	Location         string    `json:"location"`
	Salary           float64   `json:"salary"`
	Requirements     string    `json:"requirements"`
	Student          User      `json:"student"`
	InterestedTutors []User    `json:"interestedTutors"`
	SelectedTutor    *User     `json:"selectedTutor"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// PostInput carries only the fields being set; nil fields are left out of
// the request body.
type PostInput struct {
	Subject      *string  `json:"subject,omitempty"`
	Location     *string  `json:"location,omitempty"`
	Salary       *float64 `json:"salary,omitempty"`
	Requirements *string  `json:"requirements,omitempty"`
}

func (in PostInput) Empty() bool {
	return in.Subject == nil && in.Location == nil && in.Salary == nil && in.Requirements == nil
}

type PostFilter struct {
	Subject   string
	Location  string
	MinSalary *float64
	MaxSalary *float64
}

// Query encodes the non-empty filter fields as listPosts query parameters.
func (f PostFilter) Query() url.Values {
	q := url.Values{}
	if f.Subject != "" {
		q.Set("subject", f.Subject)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.MinSalary != nil {
		q.Set("minSalary", strconv.FormatFloat(*f.MinSalary, 'f', -1, 64))
	}
	if f.MaxSalary != nil {
		q.Set("maxSalary", strconv.FormatFloat(*f.MaxSalary, 'f', -1, 64))
	}
	return q
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
