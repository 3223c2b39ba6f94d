package posts

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps posts in process memory for local development
// and tests. A single mutex makes each operation atomic.
type MemoryRepository struct {
	mu    sync.Mutex
	posts map[string]*models.Post

	// insertion order breaks ties between equal creation times
	seq  map[string]uint64
	next uint64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts: make(map[string]*models.Post),
		seq:   make(map[string]uint64),
	}
}

func clonePost(p *models.Post) *models.Post {
	out := *p
	out.InterestedTutors = slices.Clone(p.InterestedTutors)
	if out.InterestedTutors == nil {
		out.InterestedTutors = []string{}
	}
	if p.SelectedTutor != nil {
		s := *p.SelectedTutor
		out.SelectedTutor = &s
	}
	return &out
}

func (r *MemoryRepository) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Status = models.StatusOpen
	post.InterestedTutors = []string{}
	post.SelectedTutor = nil

	r.posts[post.ID] = clonePost(post)
	r.next++
	r.seq[post.ID] = r.next
	return clonePost(post), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clonePost(p), nil
}

func matches(p *models.Post, f models.PostFilter) bool {
	if f.Subject != "" && !strings.Contains(strings.ToLower(p.Subject), strings.ToLower(f.Subject)) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.MinSalary != nil && p.Salary < *f.MinSalary {
		return false
	}
	if f.MaxSalary != nil && p.Salary > *f.MaxSalary {
		return false
	}
	if f.StudentID != "" && p.Student != f.StudentID {
		return false
	}
	return true
}

func (r *MemoryRepository) List(_ context.Context, f models.PostFilter) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []*models.Post{}
	for _, p := range r.posts {
		if matches(p, f) {
			result = append(result, clonePost(p))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return r.seq[result[i].ID] > r.seq[result[j].ID]
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) owned(id, studentID string) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Student != studentID {
		return nil, common.ErrForbidden
	}
	return p, nil
}

func (r *MemoryRepository) Update(_ context.Context, id, studentID string, patch models.PostPatch) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.owned(id, studentID)
	if err != nil {
		return nil, err
	}
	if patch.Subject != nil {
		p.Subject = *patch.Subject
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Salary != nil {
		p.Salary = *patch.Salary
	}
	if patch.Requirements != nil {
		p.Requirements = *patch.Requirements
	}
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.owned(id, studentID); err != nil {
		return err
	}
	delete(r.posts, id)
	delete(r.seq, id)
	return nil
}

func (r *MemoryRepository) AddInterestedTutor(_ context.Context, id, tutorID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if !p.HasInterest(tutorID) {
		p.InterestedTutors = append(p.InterestedTutors, tutorID)
		p.UpdatedAt = time.Now().UTC()
	}
	return clonePost(p), nil
}

func (r *MemoryRepository) SelectTutor(_ context.Context, id, studentID, tutorID string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := checkSelection(p, studentID, tutorID); err != nil {
		return nil, err
	}
	p.SelectedTutor = &tutorID
	p.Status = models.StatusAssigned
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}
