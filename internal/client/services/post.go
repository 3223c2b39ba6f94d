package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tutorhub/internal/client/client"
	"github.com/dmitrijs2005/tutorhub/internal/client/models"
)

// PostService wraps the post endpoints, attaching the cached session to the
// calls that need one.
type PostService interface {
	List(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	Mine(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, in models.PostInput) (*models.Post, error)
	Update(ctx context.Context, id string, in models.PostInput) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	ExpressInterest(ctx context.Context, id string) (*models.Post, error)
	Interested(ctx context.Context, id string) ([]models.User, error)
	SelectTutor(ctx context.Context, id, tutorID string) (*models.Post, error)
}

var ErrNothingToUpdate = errors.New("nothing to update")

type postService struct {
	client client.Client
	auth   AuthService
}

// NewPostService authenticates calls with the session held by auth.
func NewPostService(c client.Client, auth AuthService) PostService {
	return &postService{client: c, auth: auth}
}

func (s *postService) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	return s.client.ListPosts(ctx, f)
}

func (s *postService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.client.GetPost(ctx, id)
}

func (s *postService) Mine(ctx context.Context) (posts []models.Post, err error) {
	err = withSession(ctx, s.auth, func(ctx context.Context) error {
		posts, err = s.client.MyPosts(ctx)
		return err
	})
	return posts, err
}

func (s *postService) Create(ctx context.Context, in models.PostInput) (p *models.Post, err error) {
	err = withSession(ctx, s.auth, func(ctx context.Context) error {
		p, err = s.client.CreatePost(ctx, in)
		return err
	})
	return p, err
}

func (s *postService) Update(ctx context.Context, id string, in models.PostInput) (p *models.Post, err error) {
	if in.Empty() {
		return nil, ErrNothingToUpdate
	}
	err = withSession(ctx, s.auth, func(ctx context.Context) error {
		p, err = s.client.UpdatePost(ctx, id, in)
		return err
	})
	return p, err
}

func (s *postService) Delete(ctx context.Context, id string) error {
	return withSession(ctx, s.auth, func(ctx context.Context) error {
		return s.client.DeletePost(ctx, id)
	})
}

func (s *postService) ExpressInterest(ctx context.Context, id string) (p *models.Post, err error) {
	err = withSession(ctx, s.auth, func(ctx context.Context) error {
		p, err = s.client.ExpressInterest(ctx, id)
		return err
	})
	return p, err
}

func (s *postService) Interested(ctx context.Context, id string) (users []models.User, err error) {
	err = withSession(ctx, s.auth, func(ctx context.Context) error {
		users, err = s.client.InterestedTutors(ctx, id)
		return err
	})
	return users, err
}

func (s *postService) SelectTutor(ctx context.Context, id, tutorID string) (p *models.Post, err error) {
	err = withSession(ctx, s.auth, func(ctx context.Context) error {
		p, err = s.client.SelectTutor(ctx, id, tutorID)
		return err
	})
	return p, err
}
