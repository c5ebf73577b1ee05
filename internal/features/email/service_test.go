package email

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mailflow/internal/features/campaign"
	"mailflow/internal/features/credential"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeCampaignRepo struct {
	created         *campaign.Campaign
	updated         *campaign.Campaign
	recipientWrites []int
	finalized       bool
	finalStatus     campaign.Status
	finalSent       int
	finalFailed     int
	createErr       error
}

func (f *fakeCampaignRepo) Create(ctx context.Context, c *campaign.Campaign) error {
	if f.createErr != nil {
		return f.createErr
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	f.created = c
	return nil
}

func (f *fakeCampaignRepo) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]campaign.Campaign, error) {
	return nil, nil
}

func (f *fakeCampaignRepo) FindByIDAndOwner(ctx context.Context, id string, owner primitive.ObjectID) (*campaign.Campaign, error) {
	return nil, campaign.ErrCampaignNotFound
}

func (f *fakeCampaignRepo) Update(ctx context.Context, c *campaign.Campaign) error {
	f.updated = c
	return nil
}

func (f *fakeCampaignRepo) Delete(ctx context.Context, id string, owner primitive.ObjectID) error {
	return nil
}

func (f *fakeCampaignRepo) UpdateRecipient(ctx context.Context, campaignID primitive.ObjectID, index int, entry campaign.Recipient) error {
	f.recipientWrites = append(f.recipientWrites, index)
	return nil
}

func (f *fakeCampaignRepo) Finalize(ctx context.Context, campaignID primitive.ObjectID, status campaign.Status, sent, failed int) error {
	f.finalized = true
	f.finalStatus = status
	f.finalSent = sent
	f.finalFailed = failed
	return nil
}

type fakeCredentialService struct {
	sender *credential.Sender
	err    error
}

func (f *fakeCredentialService) CreateCredential(ctx context.Context, owner primitive.ObjectID, email, appPassword string, provider credential.Provider) (*credential.Credential, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCredentialService) ListCredentials(ctx context.Context, owner primitive.ObjectID) ([]credential.Credential, error) {
	return nil, nil
}

func (f *fakeCredentialService) GetCredential(ctx context.Context, id string, owner primitive.ObjectID) (*credential.Credential, error) {
	return nil, credential.ErrCredentialNotFound
}

func (f *fakeCredentialService) DeleteCredential(ctx context.Context, id string, owner primitive.ObjectID) error {
	return nil
}

func (f *fakeCredentialService) Resolve(ctx context.Context, id string, owner primitive.ObjectID) (*credential.Sender, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sender, nil
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

type fakeGateway struct {
	sent    []sentMessage
	failTo  map[string]error
	counter int
}

func (f *fakeGateway) Send(ctx context.Context, msg OutboundEmail) (string, error) {
	if err, ok := f.failTo[msg.To]; ok {
		return "", err
	}
	f.sent = append(f.sent, sentMessage{To: msg.To, Subject: msg.Subject, Body: msg.Body})
	f.counter++
	return fmt.Sprintf("<msg-%d@test>", f.counter), nil
}

type recordingPublisher struct {
	events   []string
	payloads []map[string]any
}

func (p *recordingPublisher) Publish(event string, payload any) {
	p.events = append(p.events, event)
	if m, ok := payload.(map[string]any); ok {
		p.payloads = append(p.payloads, m)
	}
}

func newTestService(repo *fakeCampaignRepo, creds *fakeCredentialService, gw *fakeGateway, pub *recordingPublisher) *EmailServiceImpl {
	return &EmailServiceImpl{
		Campaigns:   repo,
		Credentials: creds,
		Gateway:     gw,
		Publisher:   pub,
		Logger:      zap.NewNop(),
		SendTimeout: 5 * time.Second,
	}
}

func testSender() *credential.Sender {
	return &credential.Sender{
		Email:    "sender@gmail.com",
		Password: "app-password",
		Provider: credential.ProviderGmail,
	}
}

func TestSendBulkAllSucceed(t *testing.T) {
	repo := &fakeCampaignRepo{}
	gw := &fakeGateway{}
	pub := &recordingPublisher{}
	svc := newTestService(repo, &fakeCredentialService{sender: testSender()}, gw, pub)

	result, err := svc.SendBulk(context.Background(), primitive.NewObjectID(), BulkRequest{
		CampaignName:   "Launch",
		Subject:        "Hello",
		Content:        "Body",
		CredentialID:   primitive.NewObjectID().Hex(),
		RecipientsText: "a@x.com\nb@x.com\nc@x.com",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, campaign.StatusCompleted, result.Status)
	assert.Equal(t, 3, result.SentCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Equal(t, 3, result.TotalRecipients)
	assert.Equal(t, "All 3 emails sent successfully!", result.Message)

	// Attempts happen in input order.
	require.Len(t, gw.sent, 3)
	assert.Equal(t, "a@x.com", gw.sent[0].To)
	assert.Equal(t, "b@x.com", gw.sent[1].To)
	assert.Equal(t, "c@x.com", gw.sent[2].To)

	// Every recipient outcome was persisted individually, then counts once.
	assert.Equal(t, []int{0, 1, 2}, repo.recipientWrites)
	assert.True(t, repo.finalized)
	assert.Equal(t, campaign.StatusCompleted, repo.finalStatus)
	assert.Equal(t, 3, repo.finalSent)

	require.NotNil(t, repo.created)
	for _, r := range repo.created.Recipients {
		assert.Equal(t, campaign.RecipientSent, r.Status)
		assert.NotNil(t, r.SentAt)
		assert.NotEmpty(t, r.MessageID)
	}

	require.Equal(t, []string{"campaign:completed"}, pub.events)
}

func TestSendBulkPartialFailure(t *testing.T) {
	repo := &fakeCampaignRepo{}
	gw := &fakeGateway{failTo: map[string]error{"b@x.com": errors.New("mailbox unavailable")}}
	svc := newTestService(repo, &fakeCredentialService{sender: testSender()}, gw, &recordingPublisher{})

	result, err := svc.SendBulk(context.Background(), primitive.NewObjectID(), BulkRequest{
		CampaignName:   "Launch",
		Subject:        "Hello",
		Content:        "Body",
		CredentialID:   primitive.NewObjectID().Hex(),
		RecipientsText: "a@x.com\nb@x.com\nc@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, campaign.StatusPartial, result.Status)
	assert.Equal(t, 2, result.SentCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, "2 emails sent successfully, 1 failed.", result.Message)

	// The failure did not abort the batch: c@x.com was still attempted.
	require.Len(t, gw.sent, 2)
	assert.Equal(t, "c@x.com", gw.sent[1].To)

	entries := repo.created.Recipients
	assert.Equal(t, campaign.RecipientSent, entries[0].Status)
	assert.Equal(t, campaign.RecipientFailed, entries[1].Status)
	assert.Equal(t, "mailbox unavailable", entries[1].Error)
	assert.Nil(t, entries[1].SentAt)
	assert.Equal(t, campaign.RecipientSent, entries[2].Status)

	assert.Equal(t, result.SentCount+result.FailedCount, result.TotalRecipients)
}

func TestSendBulkAllFail(t *testing.T) {
	repo := &fakeCampaignRepo{}
	gw := &fakeGateway{failTo: map[string]error{
		"a@x.com": errors.New("connection refused"),
		"b@x.com": errors.New("connection refused"),
	}}
	svc := newTestService(repo, &fakeCredentialService{sender: testSender()}, gw, &recordingPublisher{})

	result, err := svc.SendBulk(context.Background(), primitive.NewObjectID(), BulkRequest{
		CampaignName:   "Launch",
		Subject:        "Hello",
		Content:        "Body",
		CredentialID:   primitive.NewObjectID().Hex(),
		RecipientsText: "a@x.com\nb@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, campaign.StatusFailed, result.Status)
	assert.Equal(t, 0, result.SentCount)
	assert.Equal(t, 2, result.FailedCount)
}

func TestSendBulkCredentialResolutionFails(t *testing.T) {
	repo := &fakeCampaignRepo{}
	gw := &fakeGateway{}
	pub := &recordingPublisher{}
	svc := newTestService(repo, &fakeCredentialService{err: credential.ErrCredentialNotFound}, gw, pub)

	result, err := svc.SendBulk(context.Background(), primitive.NewObjectID(), BulkRequest{
		CampaignName:   "Launch",
		Subject:        "Hello",
		Content:        "Body",
		CredentialID:   primitive.NewObjectID().Hex(),
		RecipientsText: "a@x.com\nb@x.com\nc@x.com",
	})
	require.ErrorIs(t, err, credential.ErrCredentialNotFound)
	require.NotNil(t, result)

	// No delivery was attempted, but the campaign exists with a full
	// failure trail.
	assert.Empty(t, gw.sent)
	assert.Equal(t, campaign.StatusFailed, result.Status)
	assert.Equal(t, 0, result.SentCount)
	assert.Equal(t, 3, result.FailedCount)
	assert.Equal(t, 3, result.TotalRecipients)

	require.NotNil(t, repo.updated)
	for _, r := range repo.updated.Recipients {
		assert.Equal(t, campaign.RecipientFailed, r.Status)
		assert.Equal(t, credential.ErrCredentialNotFound.Error(), r.Error)
	}

	require.Equal(t, []string{"campaign:completed"}, pub.events)
}

func TestSendBulkNoRecipients(t *testing.T) {
	repo := &fakeCampaignRepo{}
	svc := newTestService(repo, &fakeCredentialService{sender: testSender()}, &fakeGateway{}, &recordingPublisher{})

	result, err := svc.SendBulk(context.Background(), primitive.NewObjectID(), BulkRequest{
		CampaignName:   "Launch",
		RecipientsText: "not-an-address\n\n",
		CredentialID:   primitive.NewObjectID().Hex(),
	})
	assert.ErrorIs(t, err, ErrNoRecipients)
	assert.Nil(t, result)
	assert.Nil(t, repo.created)
}

func TestSendBulkDuplicatesKept(t *testing.T) {
	repo := &fakeCampaignRepo{}
	gw := &fakeGateway{}
	svc := newTestService(repo, &fakeCredentialService{sender: testSender()}, gw, &recordingPublisher{})

	result, err := svc.SendBulk(context.Background(), primitive.NewObjectID(), BulkRequest{
		CampaignName:   "Launch",
		Subject:        "Hello",
		Content:        "Body",
		CredentialID:   primitive.NewObjectID().Hex(),
		RecipientsText: "dup@x.com\ndup@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalRecipients)
	assert.Len(t, gw.sent, 2)
}

func TestSendBulkSendsContentVerbatim(t *testing.T) {
	repo := &fakeCampaignRepo{}
	gw := &fakeGateway{}
	svc := newTestService(repo, &fakeCredentialService{sender: testSender()}, gw, &recordingPublisher{})

	_, err := svc.SendBulk(context.Background(), primitive.NewObjectID(), BulkRequest{
		CampaignName:   "Launch",
		Subject:        "For {{company}}",
		Content:        "Dear {{hrName}}",
		CredentialID:   primitive.NewObjectID().Hex(),
		RecipientsText: "a@x.com",
	})
	require.NoError(t, err)

	// Placeholder substitution is the caller's concern in bulk mode.
	require.Len(t, gw.sent, 1)
	assert.Equal(t, "For {{company}}", gw.sent[0].Subject)
	assert.Equal(t, "Dear {{hrName}}", gw.sent[0].Body)
}

func TestSendSingleRendersPlaceholders(t *testing.T) {
	repo := &fakeCampaignRepo{}
	gw := &fakeGateway{}
	svc := newTestService(repo, &fakeCredentialService{sender: testSender()}, gw, &recordingPublisher{})

	result, err := svc.SendSingle(context.Background(), primitive.NewObjectID(), SingleRequest{
		To:           "hr@acme.com",
		Subject:      "Application for {{position}}",
		Content:      "Dear {{hrName}}, I wish to join {{company}}. Regards, {{name}}",
		CredentialID: primitive.NewObjectID().Hex(),
		HRName:       "Bob",
		Company:      "Acme",
		Position:     "Backend Engineer",
		SenderName:   "Alice",
	})
	require.NoError(t, err)

	assert.Equal(t, campaign.StatusCompleted, result.Status)
	assert.Equal(t, 1, result.TotalRecipients)

	require.Len(t, gw.sent, 1)
	assert.Equal(t, "Application for Backend Engineer", gw.sent[0].Subject)
	assert.Equal(t, "Dear Bob, I wish to join Acme. Regards, Alice", gw.sent[0].Body)

	assert.Equal(t, "Single email to: hr@acme.com", repo.created.Name)
}
