package campaign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubRepo struct {
	CampaignRepository
	campaigns []Campaign
	created   *Campaign
	updated   *Campaign
}

func (s *stubRepo) Create(ctx context.Context, c *Campaign) error {
	s.created = c
	return nil
}

func (s *stubRepo) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]Campaign, error) {
	return s.campaigns, nil
}

func (s *stubRepo) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*Campaign, error) {
	for i := range s.campaigns {
		if s.campaigns[i].ID.Hex() == id {
			return &s.campaigns[i], nil
		}
	}
	return nil, ErrCampaignNotFound
}

func (s *stubRepo) Update(ctx context.Context, c *Campaign) error {
	s.updated = c
	return nil
}

func TestCreateDraftValidation(t *testing.T) {
	svc := NewCampaignService(&stubRepo{})
	owner := primitive.NewObjectID()

	_, err := svc.CreateDraft(context.Background(), owner, "", "Subject", "Body", nil)
	assert.Error(t, err)

	_, err = svc.CreateDraft(context.Background(), owner, "Name", "", "Body", nil)
	assert.Error(t, err)
}

func TestCreateDraftResetsRecipientStatus(t *testing.T) {
	repo := &stubRepo{}
	svc := NewCampaignService(repo)

	created, err := svc.CreateDraft(context.Background(), primitive.NewObjectID(), "Launch", "Hello", "Body", []Recipient{
		{Email: "a@x.com", Status: RecipientSent},
		{Email: "b@x.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, created.Status)
	for _, r := range created.Recipients {
		assert.Equal(t, RecipientPending, r.Status)
	}
}

func TestUpdateCampaignKeepsCounts(t *testing.T) {
	id := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	repo := &stubRepo{campaigns: []Campaign{{
		ID:              id,
		User:            owner,
		Name:            "Old",
		Subject:         "Old subject",
		Status:          StatusCompleted,
		TotalRecipients: 4,
		SentCount:       3,
		FailedCount:     1,
	}}}
	svc := NewCampaignService(repo)

	updated, err := svc.UpdateCampaign(context.Background(), id.Hex(), owner, "New", "", "")
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "Old subject", updated.Subject)
	assert.Equal(t, 4, updated.TotalRecipients)
	assert.Equal(t, 3, updated.SentCount)
	assert.Equal(t, StatusCompleted, updated.Status)
}

func TestGetStats(t *testing.T) {
	repo := &stubRepo{campaigns: []Campaign{
		{Status: StatusCompleted, TotalRecipients: 10, SentCount: 10},
		{Status: StatusPartial, TotalRecipients: 5, SentCount: 3, FailedCount: 2},
		{Status: StatusInProgress, TotalRecipients: 7},
		{Status: StatusDraft, TotalRecipients: 2},
	}}
	svc := NewCampaignService(repo)

	stats, err := svc.GetStats(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalCampaigns)
	assert.Equal(t, 24, stats.TotalEmails)
	assert.Equal(t, 13, stats.SuccessfulSends)
	assert.Equal(t, 2, stats.FailedSends)
	assert.Equal(t, 2, stats.ActiveCampaigns)
}
