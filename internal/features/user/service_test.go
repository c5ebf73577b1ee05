package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type stubRepo struct {
	UserRepository
	user *User
}

func (s *stubRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubRepo) Update(ctx context.Context, u *User) error {
	s.user = u
	return nil
}

func seedUser(t *testing.T, password string) *User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		ID:       primitive.NewObjectID(),
		Name:     "Alice",
		Email:    "alice@x.com",
		Password: string(hashed),
	}
}

func TestUpdateProfile(t *testing.T) {
	u := seedUser(t, "password123")
	repo := &stubRepo{user: u}
	svc := NewUserService(repo)

	updated, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileRequest{
		Name:    "Alice Smith",
		Title:   "Backend Engineer",
		Company: "Acme",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice Smith", updated.Name)
	assert.Equal(t, "Backend Engineer", updated.Title)
	// Blank name/email keep the existing values, blank profile fields clear.
	assert.Equal(t, "alice@x.com", updated.Email)
	assert.Empty(t, updated.Bio)
}

func TestChangePassword(t *testing.T) {
	u := seedUser(t, "password123")
	repo := &stubRepo{user: u}
	svc := NewUserService(repo)

	err := svc.ChangePassword(context.Background(), u.ID, "wrong", "new-password-1")
	assert.Error(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "password123", "short")
	assert.Error(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "password123", "new-password-1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.user.Password), []byte("new-password-1")))
}
