package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// ListLeads returns a user's leads, newest first.
func (s *Service) ListLeads(ctx context.Context, userID uuid.UUID, source string, campaignID *uuid.UUID, limit, offset int) ([]domain.Lead, error) {
	return s.leads.ListByUser(ctx, userID, ports.LeadFilter{
		Source:     strings.ToLower(strings.TrimSpace(source)),
		CampaignID: campaignID,
		Limit:      limit,
		Offset:     offset,
	})
}

// CreateLead stores one manually entered lead.
func (s *Service) CreateLead(ctx context.Context, userID uuid.UUID, req CreateLeadRequest) (domain.Lead, error) {
	lead := domain.Lead{
		UserID:     userID,
		CampaignID: req.CampaignID,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		Source:     strings.ToLower(strings.TrimSpace(req.Source)),
		Value:      req.Value,
		UpdatedAt:  s.nowFn(),
	}
	if lead.Source == "" {
		lead.Source = "manual"
	}
	if err := lead.Validate(); err != nil {
		return domain.Lead{}, fmt.Errorf("%w: name and a valid email are required", domain.ErrInvalidInput)
	}
	return s.leads.Insert(ctx, lead)
}

// ImportLeads bulk-inserts leads. Rows are validated independently; valid rows
// are persisted even when others are rejected.
func (s *Service) ImportLeads(ctx context.Context, userID uuid.UUID, rows []CreateLeadRequest) (LeadImportResult, error) {
	result := LeadImportResult{Rejected: []LeadImportError{}}
	for i, row := range rows {
		if _, err := s.CreateLead(ctx, userID, row); err != nil {
			result.Rejected = append(result.Rejected, LeadImportError{Index: i, Reason: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}
