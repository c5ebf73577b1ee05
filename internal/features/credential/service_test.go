package credential

import (
	"context"
	"strings"
	"testing"

	"mailflow/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type stubRepo struct {
	stored *Credential
}

func (s *stubRepo) Create(ctx context.Context, c *Credential) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.stored = c
	return nil
}

func (s *stubRepo) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Credential, error) {
	if s.stored == nil {
		return nil, nil
	}
	return []Credential{*s.stored}, nil
}

func (s *stubRepo) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Credential, error) {
	if s.stored == nil || s.stored.ID.Hex() != id || s.stored.User != owner {
		return nil, ErrCredentialNotFound
	}
	return s.stored, nil
}

func (s *stubRepo) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	if s.stored == nil || s.stored.ID.Hex() != id {
		return ErrCredentialNotFound
	}
	s.stored = nil
	return nil
}

func newTestService(t *testing.T, repo CredentialRepository) CredentialService {
	t.Helper()
	cipher, err := crypto.NewCipher(testKey)
	require.NoError(t, err)
	return NewCredentialService(repo, cipher)
}

func TestCreateCredentialEncryptsSecret(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	created, err := svc.CreateCredential(context.Background(), primitive.NewObjectID(), "me@gmail.com", "app-password", ProviderGmail)
	require.NoError(t, err)

	// Stored form is iv:ciphertext hex, never the plaintext.
	assert.NotEqual(t, "app-password", repo.stored.AppPassword)
	assert.Contains(t, repo.stored.AppPassword, ":")
	assert.Equal(t, "me@gmail.com", created.Email)
}

func TestCreateCredentialValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	owner := primitive.NewObjectID()

	_, err := svc.CreateCredential(context.Background(), owner, "", "secret", ProviderGmail)
	assert.Error(t, err)

	_, err = svc.CreateCredential(context.Background(), owner, "me@gmail.com", "", ProviderGmail)
	assert.Error(t, err)

	_, err = svc.CreateCredential(context.Background(), owner, "me@gmail.com", "secret", Provider("aol"))
	assert.Error(t, err)
}

func TestResolveRoundTrip(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)
	owner := primitive.NewObjectID()

	created, err := svc.CreateCredential(context.Background(), owner, "me@gmail.com", "app-password", ProviderGmail)
	require.NoError(t, err)

	sender, err := svc.Resolve(context.Background(), created.ID.Hex(), owner)
	require.NoError(t, err)
	assert.Equal(t, "me@gmail.com", sender.Email)
	assert.Equal(t, "app-password", sender.Password)
	assert.Equal(t, ProviderGmail, sender.Provider)
}

func TestResolveWrongOwner(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	created, err := svc.CreateCredential(context.Background(), primitive.NewObjectID(), "me@gmail.com", "app-password", ProviderGmail)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), created.ID.Hex(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestResolveCorruptedSecret(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)
	owner := primitive.NewObjectID()

	created, err := svc.CreateCredential(context.Background(), owner, "me@gmail.com", "app-password", ProviderGmail)
	require.NoError(t, err)

	repo.stored.AppPassword = strings.Replace(repo.stored.AppPassword, ":", ":ff", 1)

	_, err = svc.Resolve(context.Background(), created.ID.Hex(), owner)
	assert.ErrorIs(t, err, crypto.ErrDecrypt)
}
