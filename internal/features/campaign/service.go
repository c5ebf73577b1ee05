package campaign

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// Stats is the dashboard summary across all of a user's campaigns.
type Stats struct {
	TotalCampaigns  int `json:"totalCampaigns"`
	TotalEmails     int `json:"totalEmails"`
	SuccessfulSends int `json:"successfulSends"`
	FailedSends     int `json:"failedSends"`
	ActiveCampaigns int `json:"activeCampaigns"`
}

type CampaignService interface {
	CreateDraft(ctx context.Context, owner primitive.ObjectID, name, subject, template string, recipients []Recipient) (*Campaign, error)
	ListCampaigns(ctx context.Context, owner primitive.ObjectID) ([]Campaign, error)
	GetCampaign(ctx context.Context, id string, owner primitive.ObjectID) (*Campaign, error)
	UpdateCampaign(ctx context.Context, id string, owner primitive.ObjectID, name, subject, template string) (*Campaign, error)
	DeleteCampaign(ctx context.Context, id string, owner primitive.ObjectID) error
	GetStats(ctx context.Context, owner primitive.ObjectID) (*Stats, error)
}

type CampaignServiceImpl struct {
	Repo CampaignRepository
}

func NewCampaignService(repo CampaignRepository) CampaignService {
	return &CampaignServiceImpl{Repo: repo}
}

// CreateDraft stores a campaign that has not been sent yet. The send paths
// never read drafts; they exist for manual preparation only.
func (s *CampaignServiceImpl) CreateDraft(ctx context.Context, owner primitive.ObjectID, name, subject, template string, recipients []Recipient) (*Campaign, error) {
	if name == "" {
		return nil, errors.New("campaign must have a name")
	}
	if subject == "" {
		return nil, errors.New("campaign must have a subject")
	}

	for i := range recipients {
		recipients[i].Status = RecipientPending
	}

	c := New(owner, name, subject, template, StatusDraft, recipients)
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignServiceImpl) ListCampaigns(ctx context.Context, owner primitive.ObjectID) ([]Campaign, error) {
	return s.Repo.FindByOwner(ctx, owner)
}

func (s *CampaignServiceImpl) GetCampaign(ctx context.Context, id string, owner primitive.ObjectID) (*Campaign, error) {
	return s.Repo.FindByIDAndOwner(ctx, id, owner)
}

// UpdateCampaign edits the displayed fields only. Recipients and counts are
// owned by the send pipeline and cannot be changed here.
func (s *CampaignServiceImpl) UpdateCampaign(ctx context.Context, id string, owner primitive.ObjectID, name, subject, template string) (*Campaign, error) {
	c, err := s.Repo.FindByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if name != "" {
		c.Name = name
	}
	if subject != "" {
		c.Subject = subject
	}
	if template != "" {
		c.Template = template
	}

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignServiceImpl) DeleteCampaign(ctx context.Context, id string, owner primitive.ObjectID) error {
	return s.Repo.Delete(ctx, id, owner)
}

func (s *CampaignServiceImpl) GetStats(ctx context.Context, owner primitive.ObjectID) (*Stats, error) {
	campaigns, err := s.Repo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalCampaigns: len(campaigns)}
	for _, c := range campaigns {
		stats.TotalEmails += c.TotalRecipients
		stats.SuccessfulSends += c.SentCount
		stats.FailedSends += c.FailedCount
		if c.Status == StatusDraft || c.Status == StatusInProgress {
			stats.ActiveCampaigns++
		}
	}

	return stats, nil
}
