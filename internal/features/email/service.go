package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mailflow/internal/config"
	"mailflow/internal/features/campaign"
	"mailflow/internal/features/credential"
	"mailflow/internal/features/notification"
	"mailflow/pkg/crypto"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BulkRequest is one bulk send submission. RecipientsText holds one address
// per line; the optional attachment is reused identically for every
// recipient.
type BulkRequest struct {
	CampaignName   string
	Subject        string
	Content        string
	CredentialID   string
	RecipientsText string
	Attachment     *Attachment
}

// SingleRequest is a send to one recipient with personalization metadata.
type SingleRequest struct {
	To           string
	Subject      string
	Content      string
	CredentialID string
	HRName       string
	Company      string
	Position     string
	SenderName   string
	Attachment   *Attachment
}

// SendResult is what the caller gets back: the campaign id and the final
// aggregate counts. Per-recipient error detail is only available by reading
// the campaign back later.
type SendResult struct {
	CampaignID      string          `json:"campaignId"`
	Status          campaign.Status `json:"status"`
	SentCount       int             `json:"sent"`
	FailedCount     int             `json:"failed"`
	TotalRecipients int             `json:"total"`
	Message         string          `json:"message"`
}

type EmailService interface {
	SendBulk(ctx context.Context, owner primitive.ObjectID, req BulkRequest) (*SendResult, error)
	SendSingle(ctx context.Context, owner primitive.ObjectID, req SingleRequest) (*SendResult, error)
}

type EmailServiceImpl struct {
	Campaigns   campaign.CampaignRepository
	Credentials credential.CredentialService
	Gateway     Gateway
	Publisher   notification.Publisher
	Logger      *zap.Logger
	SendTimeout time.Duration
}

func NewEmailService(
	campaigns campaign.CampaignRepository,
	credentials credential.CredentialService,
	gateway Gateway,
	publisher notification.Publisher,
	logger *zap.Logger,
	cfg *config.Config,
) EmailService {
	return &EmailServiceImpl{
		Campaigns:   campaigns,
		Credentials: credentials,
		Gateway:     gateway,
		Publisher:   publisher,
		Logger:      logger,
		SendTimeout: cfg.SendTimeout,
	}
}

// SendBulk drives one delivery attempt per recipient, strictly in input
// order. The campaign record is created before the first external call so a
// failure trail always exists; a single recipient's failure never aborts the
// batch.
func (s *EmailServiceImpl) SendBulk(ctx context.Context, owner primitive.ObjectID, req BulkRequest) (*SendResult, error) {
	recipients, err := ParseRecipients(req.RecipientsText)
	if err != nil {
		return nil, err
	}

	c := campaign.New(owner, req.CampaignName, req.Subject, req.Content, campaign.StatusInProgress, recipients)
	if err := s.Campaigns.Create(ctx, c); err != nil {
		return nil, err
	}

	sender, err := s.Credentials.Resolve(ctx, req.CredentialID, owner)
	if err != nil {
		return s.failAll(ctx, c, err)
	}

	// Bulk mode sends the submitted content verbatim; per-recipient
	// substitution is a single-send concern.
	result := s.run(ctx, c, sender, "", req.Attachment, func(campaign.Recipient) (string, string) {
		return req.Subject, req.Content
	})
	return result, nil
}

// SendSingle follows the same campaign-record-then-attempt pattern as a
// batch of size one, with subject and body rendered against the recipient's
// metadata.
func (s *EmailServiceImpl) SendSingle(ctx context.Context, owner primitive.ObjectID, req SingleRequest) (*SendResult, error) {
	recipients, err := ParseRecipients(req.To)
	if err != nil {
		return nil, err
	}
	entry := &recipients[0]
	entry.Name = req.HRName
	entry.Company = req.Company
	entry.Position = req.Position

	name := fmt.Sprintf("Single email to: %s", entry.Email)
	c := campaign.New(owner, name, req.Subject, req.Content, campaign.StatusInProgress, recipients[:1])
	if err := s.Campaigns.Create(ctx, c); err != nil {
		return nil, err
	}

	sender, err := s.Credentials.Resolve(ctx, req.CredentialID, owner)
	if err != nil {
		return s.failAll(ctx, c, err)
	}

	result := s.run(ctx, c, sender, req.SenderName, req.Attachment, func(r campaign.Recipient) (string, string) {
		vals := RenderValues{
			SenderName:    req.SenderName,
			HRName:        r.Name,
			Company:       r.Company,
			Position:      r.Position,
			RecipientName: r.Email,
		}
		return Render(req.Subject, vals), Render(req.Content, vals)
	})
	return result, nil
}

// run is the sequential send loop. Outcomes are determined and written in
// input order; each entry's mutation is persisted as it happens and the
// aggregate status and counts are written once at the end.
func (s *EmailServiceImpl) run(ctx context.Context, c *campaign.Campaign, sender *credential.Sender, fromName string, att *Attachment, render func(campaign.Recipient) (string, string)) *SendResult {
	sent, failed := 0, 0

	for i := range c.Recipients {
		entry := &c.Recipients[i]
		subject, body := render(*entry)

		msg := OutboundEmail{
			From:     *sender,
			FromName: fromName,
			To:       entry.Email,
			Subject:  subject,
			Body:     body,
		}
		if att != nil {
			msg.Attachments = []Attachment{*att}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.SendTimeout)
		messageID, err := s.Gateway.Send(attemptCtx, msg)
		cancel()

		if err != nil {
			entry.Status = campaign.RecipientFailed
			entry.Error = err.Error()
			failed++
			s.Logger.Warn("delivery failed",
				zap.String("campaignId", c.ID.Hex()),
				zap.String("to", entry.Email),
				zap.Error(err))
		} else {
			now := time.Now()
			entry.Status = campaign.RecipientSent
			entry.SentAt = &now
			entry.MessageID = messageID
			sent++
		}

		if err := s.Campaigns.UpdateRecipient(ctx, c.ID, i, *entry); err != nil {
			s.Logger.Error("failed to persist recipient outcome",
				zap.String("campaignId", c.ID.Hex()),
				zap.Error(err))
		}
	}

	status := campaign.TerminalStatus(sent, failed)
	c.Status = status
	c.SentCount = sent
	c.FailedCount = failed

	if err := s.Campaigns.Finalize(ctx, c.ID, status, sent, failed); err != nil {
		s.Logger.Error("failed to finalize campaign",
			zap.String("campaignId", c.ID.Hex()),
			zap.Error(err))
	}

	s.Publisher.Publish("campaign:completed", map[string]any{
		"campaignId": c.ID.Hex(),
		"status":     status,
		"sent":       sent,
		"failed":     failed,
		"total":      c.TotalRecipients,
	})

	message := fmt.Sprintf("All %d emails sent successfully!", sent)
	if failed > 0 {
		message = fmt.Sprintf("%d emails sent successfully, %d failed.", sent, failed)
	}

	return &SendResult{
		CampaignID:      c.ID.Hex(),
		Status:          status,
		SentCount:       sent,
		FailedCount:     failed,
		TotalRecipients: c.TotalRecipients,
		Message:         message,
	}
}

// failAll finalizes a campaign whose credential could not be resolved: every
// entry is marked failed with the same cause and no gateway call is made.
// The campaign stays visible in history with a full failure trail.
func (s *EmailServiceImpl) failAll(ctx context.Context, c *campaign.Campaign, cause error) (*SendResult, error) {
	for i := range c.Recipients {
		c.Recipients[i].Status = campaign.RecipientFailed
		c.Recipients[i].Error = cause.Error()
	}
	c.Status = campaign.StatusFailed
	c.SentCount = 0
	c.FailedCount = c.TotalRecipients

	if err := s.Campaigns.Update(ctx, c); err != nil {
		s.Logger.Error("failed to persist failed campaign",
			zap.String("campaignId", c.ID.Hex()),
			zap.Error(err))
	}

	if errors.Is(cause, crypto.ErrDecrypt) {
		s.Logger.Error("credential decryption failed",
			zap.String("campaignId", c.ID.Hex()))
	} else {
		s.Logger.Warn("credential resolution failed",
			zap.String("campaignId", c.ID.Hex()),
			zap.Error(cause))
	}

	s.Publisher.Publish("campaign:completed", map[string]any{
		"campaignId": c.ID.Hex(),
		"status":     campaign.StatusFailed,
		"sent":       0,
		"failed":     c.FailedCount,
		"total":      c.TotalRecipients,
	})

	return &SendResult{
		CampaignID:      c.ID.Hex(),
		Status:          campaign.StatusFailed,
		FailedCount:     c.FailedCount,
		TotalRecipients: c.TotalRecipients,
		Message:         cause.Error(),
	}, cause
}
