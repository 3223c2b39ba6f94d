package models

import "time"

// Status is the lifecycle state of a Post. The only transition is
// open -> assigned, made when the owner selects a tutor.
type Status string

const (
	StatusOpen      Status = "open"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
)

// Post is a tutoring request owned by a student.
type Post struct {
	ID               string    `db:"id" bson:"_id"`
	Subject          string    `db:"subject" bson:"subject"`
	Location         string    `db:"location" bson:"location"`
	Salary           float64   `db:"salary" bson:"salary"`
	Requirements     string    `db:"requirements" bson:"requirements"`
	Student          string    `db:"student_id" bson:"student"`
	InterestedTutors []string  `db:"-" bson:"interestedTutors"`
	SelectedTutor    *string   `db:"selected_tutor_id" bson:"selectedTutor"`
	Status           Status    `db:"status" bson:"status"`
	CreatedAt        time.Time `db:"created_at" bson:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" bson:"updatedAt"`
}

// HasInterest reports whether tutorID has expressed interest in the post.
func (p *Post) HasInterest(tutorID string) bool {
	for _, id := range p.InterestedTutors {
		if id == tutorID {
			return true
		}
	}
	return false
}

// PostPatch lists the fields of an update; nil means "leave unchanged".
type PostPatch struct {
	Subject      *string
	Location     *string
	Salary       *float64
	Requirements *string
}

func (p PostPatch) Empty() bool {
	return p.Subject == nil && p.Location == nil && p.Salary == nil && p.Requirements == nil
}

// PostFilter narrows a post listing. Zero values impose no constraint.
// Subject and Location are case-insensitive substring matches; the salary
// bounds are inclusive.
type PostFilter struct {
	Subject   string
	Location  string
	MinSalary *float64
	MaxSalary *float64
	StudentID string
}

// PostView is a Post with its user references resolved.
type PostView struct {
	ID               string        `json:"id"`
	Subject          string        `json:"subject"`
	Location         string        `json:"location"`
	Salary           float64       `json:"salary"`
	Requirements     string        `json:"requirements"`
	Student          UserSummary   `json:"student"`
	InterestedTutors []UserSummary `json:"interestedTutors"`
	SelectedTutor    *UserSummary  `json:"selectedTutor"`
	Status           Status        `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// NewPostView resolves the user ids of p through users. Ids missing from
// the map are reported with the id alone.
func NewPostView(p *Post, users map[string]UserSummary) PostView {
	lookup := func(id string) UserSummary {
		if u, ok := users[id]; ok {
			return u
		}
		return UserSummary{ID: id}
	}

	v := PostView{
		ID:               p.ID,
		Subject:          p.Subject,
		Location:         p.Location,
		Salary:           p.Salary,
		Requirements:     p.Requirements,
		Student:          lookup(p.Student),
		InterestedTutors: make([]UserSummary, 0, len(p.InterestedTutors)),
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for _, id := range p.InterestedTutors {
		v.InterestedTutors = append(v.InterestedTutors, lookup(id))
	}
	if p.SelectedTutor != nil {
		s := lookup(*p.SelectedTutor)
		v.SelectedTutor = &s
	}
	return v
}

// UserIDs returns every user id referenced by posts, without duplicates.
func UserIDs(posts ...*Post) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, p := range posts {
		add(p.Student)
		for _, t := range p.InterestedTutors {
			add(t)
		}
		if p.SelectedTutor != nil {
			add(*p.SelectedTutor)
		}
	}
	return ids
}
