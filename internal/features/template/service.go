package template

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrDuplicateTemplate = errors.New("a template with that name already exists for this position")
)

type CreateTemplateRequest struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
	Position string `json:"position"`
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, owner primitive.ObjectID, req CreateTemplateRequest) (*Template, error)
	ListTemplates(ctx context.Context, owner primitive.ObjectID) ([]Template, error)
	GetTemplate(ctx context.Context, id string, owner primitive.ObjectID) (*Template, error)
	UpdateTemplate(ctx context.Context, id string, owner primitive.ObjectID, req CreateTemplateRequest) (*Template, error)
	DeleteTemplate(ctx context.Context, id string, owner primitive.ObjectID) error
}

type TemplateServiceImpl struct {
	Repo   TemplateRepository
	Logger *zap.Logger
}

func NewTemplateService(repo TemplateRepository, logger *zap.Logger) TemplateService {
	return &TemplateServiceImpl{Repo: repo, Logger: logger}
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, owner primitive.ObjectID, req CreateTemplateRequest) (*Template, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Position = strings.TrimSpace(req.Position)

	if req.Name == "" || req.Content == "" {
		return nil, errors.New("template name and content are required")
	}

	t := &Template{
		User:     owner,
		Name:     req.Name,
		Subject:  req.Subject,
		Content:  req.Content,
		Position: req.Position,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateServiceImpl) ListTemplates(ctx context.Context, owner primitive.ObjectID) ([]Template, error) {
	return s.Repo.FindByOwner(ctx, owner)
}

func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, id string, owner primitive.ObjectID) (*Template, error) {
	return s.Repo.FindByIDAndOwner(ctx, id, owner)
}

func (s *TemplateServiceImpl) UpdateTemplate(ctx context.Context, id string, owner primitive.ObjectID, req CreateTemplateRequest) (*Template, error) {
	t, err := s.Repo.FindByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		t.Name = name
	}
	if req.Subject != "" {
		t.Subject = req.Subject
	}
	if req.Content != "" {
		t.Content = req.Content
	}
	if position := strings.TrimSpace(req.Position); position != "" {
		t.Position = position
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateServiceImpl) DeleteTemplate(ctx context.Context, id string, owner primitive.ObjectID) error {
	return s.Repo.Delete(ctx, id, owner)
}
