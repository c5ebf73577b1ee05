package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mailflow/pkg/crypto"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrCredentialNotFound = errors.New("email credential not found or you do not have permission to use it")

type CredentialService interface {
	CreateCredential(ctx context.Context, owner primitive.ObjectID, email, appPassword string, provider Provider) (*Credential, error)
	ListCredentials(ctx context.Context, owner primitive.ObjectID) ([]Credential, error)
	GetCredential(ctx context.Context, id string, owner primitive.ObjectID) (*Credential, error)
	DeleteCredential(ctx context.Context, id string, owner primitive.ObjectID) error

	// Resolve looks up a credential and decrypts its secret for one send
	// batch. A decrypt failure is reported as crypto.ErrDecrypt, distinct
	// from ErrCredentialNotFound.
	Resolve(ctx context.Context, id string, owner primitive.ObjectID) (*Sender, error)
}

type CredentialServiceImpl struct {
	Repo   CredentialRepository
	Cipher *crypto.Cipher
}

func NewCredentialService(repo CredentialRepository, cipher *crypto.Cipher) CredentialService {
	return &CredentialServiceImpl{Repo: repo, Cipher: cipher}
}

func (s *CredentialServiceImpl) CreateCredential(ctx context.Context, owner primitive.ObjectID, email, appPassword string, provider Provider) (*Credential, error) {
	email = strings.TrimSpace(email)
	if email == "" || appPassword == "" {
		return nil, errors.New("email and app password are required")
	}
	if provider == "" {
		provider = ProviderGmail
	}
	if !provider.Valid() {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	encrypted, err := s.Cipher.Encrypt(appPassword)
	if err != nil {
		return nil, err
	}

	c := &Credential{
		User:        owner,
		Email:       email,
		AppPassword: encrypted,
		Provider:    provider,
	}

	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CredentialServiceImpl) ListCredentials(ctx context.Context, owner primitive.ObjectID) ([]Credential, error) {
	return s.Repo.FindByOwner(ctx, owner)
}

func (s *CredentialServiceImpl) GetCredential(ctx context.Context, id string, owner primitive.ObjectID) (*Credential, error) {
	return s.Repo.FindByIDAndOwner(ctx, id, owner)
}

func (s *CredentialServiceImpl) DeleteCredential(ctx context.Context, id string, owner primitive.ObjectID) error {
	return s.Repo.Delete(ctx, id, owner)
}

func (s *CredentialServiceImpl) Resolve(ctx context.Context, id string, owner primitive.ObjectID) (*Sender, error) {
	c, err := s.Repo.FindByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	password, err := s.Cipher.Decrypt(c.AppPassword)
	if err != nil {
		return nil, err
	}

	return &Sender{
		Email:    c.Email,
		Password: password,
		Provider: c.Provider,
	}, nil
}
