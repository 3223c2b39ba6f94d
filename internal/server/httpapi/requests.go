package httpapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tutorhub/internal/server/services"
)

type salaryError struct{ raw string }

func (e *salaryError) Error() string { return "invalid salary " + e.raw }

// flexFloat accepts a JSON number or a string holding one.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &salaryError{raw: string(data)}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return &salaryError{raw: s}
		}
		*f = flexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return &salaryError{raw: string(data)}
	}
	*f = flexFloat(v)
	return nil
}

type postRequest struct {
	Subject      *string    `json:"subject"`
	Location     *string    `json:"location"`
	Salary       *flexFloat `json:"salary"`
	Requirements *string    `json:"requirements"`
}

func (p postRequest) input() services.PostInput {
	in := services.PostInput{
		Subject:      p.Subject,
		Location:     p.Location,
		Requirements: p.Requirements,
	}
	if p.Salary != nil {
		v := float64(*p.Salary)
		in.Salary = &v
	}
	return in
}

type selectTutorRequest struct {
	TutorID string `json:"tutorId"`
}
