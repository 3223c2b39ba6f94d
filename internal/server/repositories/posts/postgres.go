package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/dbx"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/google/uuid"
)

// Interested tutors live in post_interests and are folded back into one
// comma-separated column, in the order interest was expressed.
const selectPosts = `SELECT p.id, p.subject, p.location, p.salary, p.requirements, p.student_id,
       p.selected_tutor_id, p.status, p.created_at, p.updated_at,
       COALESCE((SELECT string_agg(i.tutor_id::text, ',' ORDER BY i.seq)
                 FROM post_interests i WHERE i.post_id = p.id), '') AS interested
FROM posts p`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p          models.Post
		status     string
		selected   sql.NullString
		interested string
	)
	err := row.Scan(&p.ID, &p.Subject, &p.Location, &p.Salary, &p.Requirements, &p.Student,
		&selected, &status, &p.CreatedAt, &p.UpdatedAt, &interested)
	if err != nil {
		return nil, err
	}

	p.Status = models.Status(status)
	if selected.Valid {
		p.SelectedTutor = &selected.String
	}
	p.InterestedTutors = []string{}
	if interested != "" {
		p.InterestedTutors = strings.Split(interested, ",")
	}
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Status = models.StatusOpen
	post.InterestedTutors = []string{}
	post.SelectedTutor = nil

	query :=
		`INSERT INTO posts (id, subject, location, salary, requirements, student_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query, post.ID, post.Subject, post.Location, post.Salary,
		post.Requirements, post.Student, string(post.Status), post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPosts+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// likePattern escapes LIKE metacharacters so s matches literally as a substring.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func (r *PostgresRepository) List(ctx context.Context, f models.PostFilter) ([]*models.Post, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Subject != "" {
		add("p.subject ILIKE $%d", likePattern(f.Subject))
	}
	if f.Location != "" {
		add("p.location ILIKE $%d", likePattern(f.Location))
	}
	if f.MinSalary != nil {
		add("p.salary >= $%d", *f.MinSalary)
	}
	if f.MaxSalary != nil {
		add("p.salary <= $%d", *f.MaxSalary)
	}
	if f.StudentID != "" {
		add("p.student_id = $%d", f.StudentID)
	}

	query := selectPosts
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, studentID string, patch models.PostPatch) (*models.Post, error) {
	query :=
		`UPDATE posts SET
		     subject = COALESCE($3::text, subject),
		     location = COALESCE($4::text, location),
		     salary = COALESCE($5::double precision, salary),
		     requirements = COALESCE($6::text, requirements),
		     updated_at = now()
		 WHERE id = $1 AND student_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, studentID, patch.Subject, patch.Location, patch.Salary, patch.Requirements)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := r.checkAffected(ctx, res, id, func(p *models.Post) error { return ownershipError(p, studentID) }); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, studentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND student_id = $2`, id, studentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.checkAffected(ctx, res, id, func(p *models.Post) error { return ownershipError(p, studentID) })
}

func (r *PostgresRepository) AddInterestedTutor(ctx context.Context, id, tutorID string) (*models.Post, error) {
	query :=
		`WITH ins AS (
		     INSERT INTO post_interests (post_id, tutor_id) VALUES ($1, $2)
		     ON CONFLICT DO NOTHING
		     RETURNING post_id
		 )
		 UPDATE posts SET updated_at = now() WHERE id IN (SELECT post_id FROM ins)`

	if _, err := r.db.ExecContext(ctx, query, id, tutorID); err != nil {
		if dbx.IsForeignKeyViolation(err) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepository) SelectTutor(ctx context.Context, id, studentID, tutorID string) (*models.Post, error) {
	query :=
		`UPDATE posts SET selected_tutor_id = $3, status = 'assigned', updated_at = now()
		 WHERE id = $1 AND student_id = $2 AND status = 'open'
		   AND EXISTS (SELECT 1 FROM post_interests WHERE post_id = $1 AND tutor_id = $3)`

	res, err := r.db.ExecContext(ctx, query, id, studentID, tutorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := r.checkAffected(ctx, res, id, func(p *models.Post) error { return selectionError(p, studentID, tutorID) }); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// checkAffected turns a write that touched no rows into the error explain
// derives from the current post, or ErrorNotFound if the post is gone.
func (r *PostgresRepository) checkAffected(ctx context.Context, res sql.Result, id string, explain func(*models.Post) error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n > 0 {
		return nil
	}
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return explain(p)
}
