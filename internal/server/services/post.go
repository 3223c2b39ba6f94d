package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/auth"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/posts"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/users"
)

// PostInput carries post fields from a request. A nil field was not
// supplied: required on create, left unchanged on update.
type PostInput struct {
	Subject      *string
	Location     *string
	Salary       *float64
	Requirements *string
}

const (
	subjectRule      = "min=2,max=100"
	locationRule     = "min=2,max=50"
	salaryRule       = "gte=0,lte=1000000"
	requirementsRule = "max=1000"
)

// toPatch trims and validates the supplied fields. With create set, subject,
// location and salary must be present.
func (in PostInput) toPatch(create bool) (models.PostPatch, error) {
	var (
		patch models.PostPatch
		ve    = &common.ValidationError{}
	)

	trimmed := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	patch.Subject = trimmed(in.Subject)
	patch.Location = trimmed(in.Location)
	patch.Requirements = trimmed(in.Requirements)
	patch.Salary = in.Salary

	if create {
		if patch.Subject == nil {
			ve.Add("subject", "subject is required")
		}
		if patch.Location == nil {
			ve.Add("location", "location is required")
		}
		if patch.Salary == nil {
			ve.Add("salary", "salary is required")
		}
	}

	if patch.Subject != nil {
		validateField(ve, "subject", *patch.Subject, "required,"+subjectRule)
	}
	if patch.Location != nil {
		validateField(ve, "location", *patch.Location, "required,"+locationRule)
	}
	if patch.Salary != nil {
		validateField(ve, "salary", *patch.Salary, salaryRule)
	}
	if patch.Requirements != nil {
		validateField(ve, "requirements", *patch.Requirements, requirementsRule)
	}

	if !ve.Empty() {
		return models.PostPatch{}, ve
	}
	return patch, nil
}

// PostService enforces the post lifecycle: students create and manage their
// posts, tutors express interest, the owner selects one interested tutor.
type PostService struct {
	posts posts.Repository
	users users.Repository
}

func NewPostService(m repomanager.RepositoryManager) *PostService {
	return &PostService{posts: m.Posts(), users: m.Users()}
}

func requireRole(s auth.Session, role models.Role) error {
	if s.Role != role {
		return common.ErrForbidden
	}
	return nil
}

// Create inserts an open post owned by the calling student.
func (s *PostService) Create(ctx context.Context, sess auth.Session, in PostInput) (*models.PostView, error) {
	if err := requireRole(sess, models.RoleStudent); err != nil {
		return nil, err
	}
	patch, err := in.toPatch(true)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Subject:  *patch.Subject,
		Location: *patch.Location,
		Salary:   *patch.Salary,
		Student:  sess.UserID,
	}
	if patch.Requirements != nil {
		post.Requirements = *patch.Requirements
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return s.view(ctx, created)
}

// List returns every post matching f, newest first.
func (s *PostService) List(ctx context.Context, f models.PostFilter) ([]models.PostView, error) {
	f.Subject = strings.TrimSpace(f.Subject)
	f.Location = strings.TrimSpace(f.Location)
	f.StudentID = ""

	found, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, found)
}

// ListMine returns the calling student's posts, newest first.
func (s *PostService) ListMine(ctx context.Context, sess auth.Session) ([]models.PostView, error) {
	if err := requireRole(sess, models.RoleStudent); err != nil {
		return nil, err
	}
	found, err := s.posts.List(ctx, models.PostFilter{StudentID: sess.UserID})
	if err != nil {
		return nil, err
	}
	return s.views(ctx, found)
}

func (s *PostService) Get(ctx context.Context, id string) (*models.PostView, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// Update changes the supplied fields of a post owned by the caller.
func (s *PostService) Update(ctx context.Context, sess auth.Session, id string, in PostInput) (*models.PostView, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	patch, err := in.toPatch(false)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.Update(ctx, id, sess.UserID, patch)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

func (s *PostService) Delete(ctx context.Context, sess auth.Session, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id, sess.UserID)
}

// ExpressInterest adds the calling tutor to the post's interested tutors.
// Repeating it is a no-op that still succeeds.
func (s *PostService) ExpressInterest(ctx context.Context, sess auth.Session, id string) (*models.PostView, error) {
	if err := requireRole(sess, models.RoleTutor); err != nil {
		return nil, err
	}
	if err := parseID(id); err != nil {
		return nil, err
	}

	post, err := s.posts.AddInterestedTutor(ctx, id, sess.UserID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

// ListInterestedTutors resolves the interested tutors of a post in the
// order they expressed interest.
func (s *PostService) ListInterestedTutors(ctx context.Context, id string) ([]models.UserSummary, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	byID, err := s.summaries(ctx, post.InterestedTutors)
	if err != nil {
		return nil, err
	}

	result := make([]models.UserSummary, 0, len(post.InterestedTutors))
	for _, tid := range post.InterestedTutors {
		if u, ok := byID[tid]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

// SelectTutor assigns an interested tutor to the caller's open post.
func (s *PostService) SelectTutor(ctx context.Context, sess auth.Session, id, tutorID string) (*models.PostView, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	tutorID = strings.TrimSpace(tutorID)
	if tutorID == "" {
		return nil, common.NewValidationError("tutorId", "tutorId is required")
	}
	if err := parseID(tutorID); err != nil {
		return nil, err
	}

	post, err := s.posts.SelectTutor(ctx, id, sess.UserID, tutorID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post)
}

func (s *PostService) summaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	found, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error resolving users: %w", err)
	}
	byID := make(map[string]models.UserSummary, len(found))
	for _, u := range found {
		byID[u.ID] = u.Summary()
	}
	return byID, nil
}

func (s *PostService) view(ctx context.Context, p *models.Post) (*models.PostView, error) {
	views, err := s.views(ctx, []*models.Post{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PostService) views(ctx context.Context, found []*models.Post) ([]models.PostView, error) {
	byID, err := s.summaries(ctx, models.UserIDs(found...))
	if err != nil {
		return nil, err
	}
	result := make([]models.PostView, 0, len(found))
	for _, p := range found {
		result = append(result, models.NewPostView(p, byID))
	}
	return result, nil
}
