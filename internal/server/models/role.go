package models

import (
	"strings"

	"github.com/dmitrijs2005/tutorhub/internal/common"
)

// Role is the account kind. The canonical spellings are "Student" and "Tutor".
type Role string

const (
	RoleStudent Role = "Student"
	RoleTutor   Role = "Tutor"
)

// ParseRole accepts any casing of a known role and returns its canonical form.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return RoleStudent, nil
	case "tutor":
		return RoleTutor, nil
	}
	return "", common.NewValidationError("role", "role must be Student or Tutor")
}

func (r Role) String() string { return string(r) }
