package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is a contact record, optionally attributed to a campaign and platform.
// Created by manual entry, bulk import, or platform sync (Shopify orders map here).
// Synced leads carry an ExternalID and dedup on (UserID, Platform, ExternalID).
type Lead struct {
	LeadID     uuid.UUID
	UserID     uuid.UUID
	CampaignID *uuid.UUID
	Platform   Platform
	ExternalID string
	Name       string
	Email      string
	Phone      string
	Source     string
	Value      float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks fields for manually entered or imported leads.
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(l.Email) != "" {
		if _, err := mail.ParseAddress(l.Email); err != nil {
			return ErrInvalidInput
		}
	}
	return nil
}
