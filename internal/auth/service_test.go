package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func TestRegister(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(nil, nil)

	var created *User
	repo.On("CreateUser", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*User)
		}).Return(nil)

	svc := NewService(repo, "test-secret", time.Hour, zap.NewNop())

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
		FullName: "Jane Doe",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "jane@example.com", resp.User.Email)

	assert.NotNil(t, created)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse battery")))
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&User{Email: "jane@example.com"}, nil)

	svc := NewService(repo, "test-secret", time.Hour, zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "jane@example.com",
		Password: "password123",
		FullName: "Jane Doe",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func loginFixture(t *testing.T, password string) *User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &User{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Role:         RoleEditor,
	}
}

func TestLogin(t *testing.T) {
	user := loginFixture(t, "password123")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	svc := NewService(repo, "test-secret", time.Hour, zap.NewNop())

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, RoleEditor, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	user := loginFixture(t, "password123")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	svc := NewService(repo, "test-secret", time.Hour, zap.NewNop())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	svc := NewService(repo, "test-secret", time.Hour, zap.NewNop())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	user := loginFixture(t, "password123")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	issuer := NewService(repo, "issuer-secret", time.Hour, zap.NewNop())
	verifier := NewService(repo, "different-secret", time.Hour, zap.NewNop())

	resp, err := issuer.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	user := loginFixture(t, "password123")
	repo := new(MockRepository)
	repo.On("GetUserByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	svc := NewService(repo, "test-secret", -time.Minute, zap.NewNop())

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
