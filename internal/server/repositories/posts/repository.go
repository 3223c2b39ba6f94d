// Package posts persists tutoring posts. Every mutation is a single
// conditional write, so ownership, interest membership and status are
// checked against the stored state at the moment of the write.
package posts

import (
	"context"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
)

type Repository interface {
	// Create inserts post, filling ID, timestamps, status=open and an empty
	// interest list.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	// List returns matching posts, newest first.
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	// Update applies the supplied fields when studentID owns the post.
	Update(ctx context.Context, id, studentID string, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id, studentID string) error
	// AddInterestedTutor appends tutorID unless already present.
	AddInterestedTutor(ctx context.Context, id, tutorID string) (*models.Post, error)
	// SelectTutor assigns tutorID when studentID owns the post, the post is
	// open and tutorID is among the interested tutors.
	SelectTutor(ctx context.Context, id, studentID, tutorID string) (*models.Post, error)
}

// ownershipError explains a conditional write on post p that matched
// nothing because of ownership.
func ownershipError(p *models.Post, studentID string) error {
	if p.Student != studentID {
		return common.ErrForbidden
	}
	// the post changed between the write and the re-read
	return common.ErrVersionConflict
}

// checkSelection reports why studentID cannot select tutorID on p, or nil.
func checkSelection(p *models.Post, studentID, tutorID string) error {
	switch {
	case p.Student != studentID:
		return common.ErrForbidden
	case p.Status != models.StatusOpen:
		return common.ErrPostNotOpen
	case !p.HasInterest(tutorID):
		return common.ErrTutorNotInterested
	}
	return nil
}

// selectionError explains why a tutor selection on p matched nothing.
func selectionError(p *models.Post, studentID, tutorID string) error {
	if err := checkSelection(p, studentID, tutorID); err != nil {
		return err
	}
	return common.ErrVersionConflict
}
