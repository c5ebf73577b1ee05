package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type stubRepo struct {
	TemplateRepository
	stored *Template
}

func (s *stubRepo) Create(ctx context.Context, t *Template) error {
	if s.stored != nil && s.stored.User == t.User && s.stored.Position == t.Position && s.stored.Name == t.Name {
		return ErrDuplicateTemplate
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	s.stored = t
	return nil
}

func (s *stubRepo) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Template, error) {
	if s.stored == nil || s.stored.ID.Hex() != id || s.stored.User != owner {
		return nil, ErrTemplateNotFound
	}
	return s.stored, nil
}

func (s *stubRepo) Update(ctx context.Context, t *Template) error {
	s.stored = t
	return nil
}

func TestCreateTemplateValidation(t *testing.T) {
	svc := NewTemplateService(&stubRepo{}, zap.NewNop())
	owner := primitive.NewObjectID()

	_, err := svc.CreateTemplate(context.Background(), owner, CreateTemplateRequest{Content: "body"})
	assert.Error(t, err)

	_, err = svc.CreateTemplate(context.Background(), owner, CreateTemplateRequest{Name: "Cold outreach"})
	assert.Error(t, err)
}

func TestCreateTemplateDuplicate(t *testing.T) {
	repo := &stubRepo{}
	svc := NewTemplateService(repo, zap.NewNop())
	owner := primitive.NewObjectID()

	req := CreateTemplateRequest{Name: "Cold outreach", Content: "Dear {{hrName}}", Position: "Backend Engineer"}
	_, err := svc.CreateTemplate(context.Background(), owner, req)
	require.NoError(t, err)

	_, err = svc.CreateTemplate(context.Background(), owner, req)
	assert.ErrorIs(t, err, ErrDuplicateTemplate)
}

func TestUpdateTemplatePartial(t *testing.T) {
	repo := &stubRepo{}
	svc := NewTemplateService(repo, zap.NewNop())
	owner := primitive.NewObjectID()

	created, err := svc.CreateTemplate(context.Background(), owner, CreateTemplateRequest{
		Name:     "Cold outreach",
		Subject:  "Hello",
		Content:  "Dear {{hrName}}",
		Position: "Backend Engineer",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTemplate(context.Background(), created.ID.Hex(), owner, CreateTemplateRequest{Subject: "Updated"})
	require.NoError(t, err)

	assert.Equal(t, "Updated", updated.Subject)
	assert.Equal(t, "Cold outreach", updated.Name)
	assert.Equal(t, "Dear {{hrName}}", updated.Content)
}

func TestGetTemplateWrongOwner(t *testing.T) {
	repo := &stubRepo{}
	svc := NewTemplateService(repo, zap.NewNop())

	created, err := svc.CreateTemplate(context.Background(), primitive.NewObjectID(), CreateTemplateRequest{Name: "T", Content: "c"})
	require.NoError(t, err)

	_, err = svc.GetTemplate(context.Background(), created.ID.Hex(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
