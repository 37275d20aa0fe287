package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

// GenerateAdCopy asks the external LLM for creative text tuned to one platform.
func (s *Service) GenerateAdCopy(ctx context.Context, req AdCopyRequest) (domain.Creative, error) {
	if s.assist == nil {
		return domain.Creative{}, fmt.Errorf("%w: assist client is not configured", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Product) == "" {
		return domain.Creative{}, fmt.Errorf("%w: product is required", domain.ErrInvalidInput)
	}
	if _, err := domain.ParsePlatform(string(req.Platform)); err != nil {
		return domain.Creative{}, fmt.Errorf("%w: unknown platform %q", domain.ErrInvalidInput, req.Platform)
	}
	return s.assist.GenerateAdCopy(ctx, req.Platform, req.Product, req.Audience)
}

// Recommendations derives budget/status suggestions from stored metrics.
// Rules fire on local data; the LLM phrases the summary when configured,
// otherwise a deterministic template is used.
func (s *Service) Recommendations(ctx context.Context, userID uuid.UUID) ([]Recommendation, error) {
	campaigns, err := s.campaigns.ListByUser(ctx, userID, ports.CampaignFilter{Limit: 200})
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0)
	for _, c := range campaigns {
		if c.Status != domain.CampaignActive {
			continue
		}
		switch {
		case c.Spend > 0 && c.ROAS < 1:
			recs = append(recs, s.recommendation(ctx, c, "pause",
				fmt.Sprintf("Campaign %q returns %.2fx on spend; consider pausing it.", c.Name, c.ROAS)))
		case c.ROAS >= 3:
			recs = append(recs, s.recommendation(ctx, c, "scale_budget",
				fmt.Sprintf("Campaign %q returns %.2fx on spend; consider raising its budget.", c.Name, c.ROAS)))
		case c.Impressions > 10000 && c.CTR < 0.005:
			recs = append(recs, s.recommendation(ctx, c, "refresh_creative",
				fmt.Sprintf("Campaign %q has a %.2f%% click-through rate; refresh the creative.", c.Name, c.CTR*100)))
		}
	}
	return recs, nil
}

func (s *Service) recommendation(ctx context.Context, c domain.Campaign, kind, fallback string) Recommendation {
	summary := fallback
	if s.assist != nil {
		prompt := fmt.Sprintf(
			"In one sentence, advise a marketer to %s for the %s campaign %q (spend %.2f, revenue %.2f, roas %.2f, ctr %.4f).",
			strings.ReplaceAll(kind, "_", " "), c.Platform, c.Name, c.Spend, c.Revenue, c.ROAS, c.CTR,
		)
		if phrased, err := s.assist.Recommend(ctx, prompt); err == nil && strings.TrimSpace(phrased) != "" {
			summary = strings.TrimSpace(phrased)
		}
	}
	return Recommendation{
		CampaignID: c.CampaignID,
		Platform:   c.Platform,
		Kind:       kind,
		Summary:    summary,
	}
}
