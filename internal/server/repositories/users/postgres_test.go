package users

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var userCols = []string{"id", "name", "email", "password_hash", "role", "phone", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*name,\s*email,\s*password_hash,\s*role,\s*phone,\s*created_at,\s*updated_at\)\s*VALUES`

	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "Alice", "alice@example.com", "hash", "Student", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("id and timestamps must be filled: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.c"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "a@b.c"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)$`
	now := time.Now().UTC()

	rows := sqlmock.NewRows(userCols).
		AddRow("u-1", "Alice", "alice@example.com", "hash", "Tutor", "01712345678", now, now)
	mock.ExpectQuery(q).WithArgs("alice@example.com").WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if u.ID != "u-1" || u.Role != models.RoleTutor || u.Phone != "01712345678" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_MalformedIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "xyz")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

// arrayConverter lets []string reach the mock the way pgx accepts it.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if ids, ok := v.([]string); ok {
		return ids, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

type idsArg []string

func (a idsArg) Match(v driver.Value) bool {
	got, ok := v.([]string)
	return ok && slices.Equal(got, a)
}

func TestGetByIDs(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp), sqlmock.ValueConverterOption(arrayConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userCols).
		AddRow("a", "A", "a@x.io", "h", "Student", "", now, now).
		AddRow("b", "B", "b@x.io", "h", "Tutor", "", now, now)
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*ANY\(\$1::uuid\[\]\)`).
		WithArgs(idsArg{"a", "b"}).
		WillReturnRows(rows)

	got, err := repo.GetByIDs(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("GetByIDs error: %v", err)
	}
	if len(got) != 2 || got[1].Role != models.RoleTutor {
		t.Fatalf("unexpected users: %+v", got)
	}
}

func TestGetByIDs_ManyIDsSingleParameter(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp), sqlmock.ValueConverterOption(arrayConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ids := make([]string, 70000)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}
	mock.ExpectQuery(`ANY\(\$1::uuid\[\]\)`).
		WithArgs(idsArg(ids)).
		WillReturnRows(sqlmock.NewRows(userCols))

	got, err := repo.GetByIDs(context.Background(), ids)
	if err != nil {
		t.Fatalf("GetByIDs error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unexpected users: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDs_EmptySkipsQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.GetByIDs(context.Background(), nil)
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query: %v", err)
	}
}

func TestUpdatePhone(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)UPDATE\s+users\s+SET\s+phone\s*=\s*\$2.*RETURNING`).
		WithArgs("u-1", "+8801712345678").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u-1", "A", "a@x.io", "h", "Student", "+8801712345678", now, now))

	u, err := repo.UpdatePhone(context.Background(), "u-1", "+8801712345678")
	if err != nil {
		t.Fatalf("UpdatePhone error: %v", err)
	}
	if u.Phone != "+8801712345678" {
		t.Fatalf("phone not updated: %+v", u)
	}

	mock.ExpectQuery(`UPDATE\s+users`).WillReturnError(sql.ErrNoRows)
	if _, err := repo.UpdatePhone(context.Background(), "missing", "01712345678"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestReplacePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$3.*WHERE\s+id\s*=\s*\$1\s+AND\s+password_hash\s*=\s*\$2`

	mock.ExpectExec(q).WithArgs("u-1", "old", "new").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.ReplacePasswordHash(context.Background(), "u-1", "old", "new"); err != nil {
		t.Fatalf("ReplacePasswordHash error: %v", err)
	}

	mock.ExpectExec(q).WithArgs("u-1", "stale", "new").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.ReplacePasswordHash(context.Background(), "u-1", "stale", "new"); !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}
