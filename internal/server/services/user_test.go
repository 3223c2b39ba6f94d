package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/auth"
	"github.com/dmitrijs2005/tutorhub/internal/server/config"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/posts"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
		BcryptCost:            bcrypt.MinCost,
	}
}

func newUserService(t *testing.T) (*UserService, *repomanager.MemoryRepositoryManager) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	return NewUserService(rm, testConfig()), rm
}

func register(t *testing.T, s *UserService, name, email, role string) *AuthResult {
	t.Helper()
	res, err := s.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "secret1", Role: role,
	})
	require.NoError(t, err)
	return res
}

// mockUsers is a testify mock of users.Repository.
type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	args := m.Called(ctx, u)
	out, _ := args.Get(0).(*models.User)
	return out, args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	out, _ := args.Get(0).(*models.User)
	return out, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*models.User)
	return out, args.Error(1)
}

func (m *mockUsers) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).([]*models.User)
	return out, args.Error(1)
}

func (m *mockUsers) UpdatePhone(ctx context.Context, id, phone string) (*models.User, error) {
	args := m.Called(ctx, id, phone)
	out, _ := args.Get(0).(*models.User)
	return out, args.Error(1)
}

func (m *mockUsers) ReplacePasswordHash(ctx context.Context, id, oldHash, newHash string) error {
	return m.Called(ctx, id, oldHash, newHash).Error(0)
}

type mockManager struct {
	users *mockUsers
}

func (m *mockManager) RunMigrations(context.Context) error { return nil }
func (m *mockManager) Users() users.Repository             { return m.users }
func (m *mockManager) Posts() posts.Repository             { return nil }
func (m *mockManager) Ping(context.Context) error          { return nil }
func (m *mockManager) Close(context.Context) error         { return nil }

// --- tests ---

func TestRegister_Success(t *testing.T) {
	s, rm := newUserService(t)

	res, err := s.Register(context.Background(), RegisterInput{
		Name:     "  Alice  ",
		Email:    " Alice@Example.COM ",
		Password: "secret1",
		Role:     "student",
		Phone:    "+8801712345678",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", res.User.Name)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.NotEmpty(t, res.Token)

	sess, err := auth.ParseToken(res.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, sess.UserID)
	assert.Equal(t, models.RoleStudent, sess.Role)

	stored, err := rm.Users().GetByID(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash, "plaintext must never be stored")
	require.NoError(t, auth.CheckPassword(stored.PasswordHash, "secret1"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newUserService(t)
	register(t, s, "Alice", "alice@x.io", "Student")

	_, err := s.Register(context.Background(), RegisterInput{
		Name: "Other", Email: "ALICE@x.io", Password: "secret1", Role: "Tutor",
	})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newUserService(t)

	tests := []struct {
		name   string
		in     RegisterInput
		fields []string
	}{
		{"empty", RegisterInput{}, []string{"name", "email", "password", "role"}},
		{"bad email and short password", RegisterInput{Name: "Al", Email: "nope", Password: "123", Role: "Tutor"}, []string{"email", "password"}},
		{"bad phone", RegisterInput{Name: "Al", Email: "a@x.io", Password: "secret1", Role: "Tutor", Phone: "12345"}, []string{"phone"}},
		{"bad role", RegisterInput{Name: "Al", Email: "a@x.io", Password: "secret1", Role: "Admin"}, []string{"role"}},
		{"password over 72 bytes", RegisterInput{Name: "Al", Email: "a@x.io", Password: strings.Repeat("é", 40), Role: "Tutor"}, []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, common.ErrValidation)

			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			var got []string
			for _, f := range ve.Fields {
				got = append(got, f.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestLogin_Flows(t *testing.T) {
	s, _ := newUserService(t)
	reg := register(t, s, "Tia", "tia@x.io", "Tutor")

	res, err := s.Login(context.Background(), LoginInput{Email: "TIA@x.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, wrongPass := s.Login(context.Background(), LoginInput{Email: "tia@x.io", Password: "nope-nope"})
	_, noUser := s.Login(context.Background(), LoginInput{Email: "ghost@x.io", Password: "secret1"})

	require.ErrorIs(t, wrongPass, common.ErrorUnauthorized)
	require.ErrorIs(t, noUser, common.ErrorUnauthorized)
	assert.Equal(t, wrongPass.Error(), noUser.Error(), "must not reveal whether the email exists")
}

func TestRegister_PasswordAtByteLimit(t *testing.T) {
	s, _ := newUserService(t)
	pw := strings.Repeat("é", 36)

	_, err := s.Register(context.Background(), RegisterInput{Name: "Eve", Email: "eve@x.io", Password: pw, Role: "Student"})
	require.NoError(t, err)
	_, err = s.Login(context.Background(), LoginInput{Email: "eve@x.io", Password: pw})
	assert.NoError(t, err)
}

func TestNewUserService_DummyHashMatchesCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost, bcrypt.MinCost + 2} {
		cfg := testConfig()
		cfg.BcryptCost = cost
		s := NewUserService(repomanager.NewMemoryRepositoryManager(), cfg)

		got, err := bcrypt.Cost([]byte(s.dummyHash))
		require.NoError(t, err)
		assert.Equal(t, cost, got)
	}
}

func TestLogin_InternalError(t *testing.T) {
	repo := &mockUsers{}
	repo.On("GetByEmail", mock.Anything, "a@x.io").Return(nil, errors.New("db down"))
	s := NewUserService(&mockManager{users: repo}, testConfig())

	_, err := s.Login(context.Background(), LoginInput{Email: "a@x.io", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorUnauthorized)
	repo.AssertExpectations(t)
}

func TestGetProfile(t *testing.T) {
	s, _ := newUserService(t)
	reg := register(t, s, "Sam", "sam@x.io", "Student")

	p, err := s.GetProfile(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "sam@x.io", p.Email)

	_, err = s.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdatePhone(t *testing.T) {
	s, _ := newUserService(t)
	reg := register(t, s, "Sam", "sam@x.io", "Student")

	p, err := s.UpdatePhone(context.Background(), reg.User.ID, UpdatePhoneInput{Phone: " 01712345678 "})
	require.NoError(t, err)
	assert.Equal(t, "01712345678", p.Phone)

	_, err = s.UpdatePhone(context.Background(), reg.User.ID, UpdatePhoneInput{Phone: "+15551234567"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdatePassword(t *testing.T) {
	s, _ := newUserService(t)
	reg := register(t, s, "Sam", "sam@x.io", "Student")
	ctx := context.Background()

	err := s.UpdatePassword(ctx, reg.User.ID, UpdatePasswordInput{CurrentPassword: "wrong1", NewPassword: "brandnew"})
	assert.ErrorIs(t, err, common.ErrIncorrectPassword)

	err = s.UpdatePassword(ctx, reg.User.ID, UpdatePasswordInput{CurrentPassword: "secret1", NewPassword: "123"})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = s.UpdatePassword(ctx, reg.User.ID, UpdatePasswordInput{CurrentPassword: "secret1", NewPassword: strings.Repeat("é", 40)})
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "newPassword", ve.Fields[0].Field)
	assert.Equal(t, "newPassword must be at most 72 bytes", ve.Fields[0].Message)

	require.NoError(t, s.UpdatePassword(ctx, reg.User.ID, UpdatePasswordInput{CurrentPassword: "secret1", NewPassword: "brandnew"}))

	_, err = s.Login(ctx, LoginInput{Email: "sam@x.io", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.Login(ctx, LoginInput{Email: "sam@x.io", Password: "brandnew"})
	assert.NoError(t, err)
}

func TestUpdatePassword_ConcurrentChange(t *testing.T) {
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockUsers{}
	repo.On("GetByID", mock.Anything, "u1").Return(&models.User{ID: "u1", PasswordHash: hash}, nil)
	repo.On("ReplacePasswordHash", mock.Anything, "u1", hash, mock.AnythingOfType("string")).Return(common.ErrVersionConflict)
	s := NewUserService(&mockManager{users: repo}, testConfig())

	err = s.UpdatePassword(context.Background(), "u1", UpdatePasswordInput{CurrentPassword: "secret1", NewPassword: "brandnew"})
	assert.ErrorIs(t, err, common.ErrIncorrectPassword)
	repo.AssertExpectations(t)
}
