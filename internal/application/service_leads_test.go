package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
)

func TestCreateLeadDefaultsSource(t *testing.T) {
	t.Parallel()
	f := newFixture()
	userID := uuid.New()

	lead, err := f.svc.CreateLead(context.Background(), userID, CreateLeadRequest{
		Name:  "Ada Example",
		Email: "ada@example.com",
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if lead.Source != "manual" {
		t.Fatalf("source = %q, want manual", lead.Source)
	}
}

func TestCreateLeadRejectsBadEmail(t *testing.T) {
	t.Parallel()
	f := newFixture()
	userID := uuid.New()

	_, err := f.svc.CreateLead(context.Background(), userID, CreateLeadRequest{
		Name:  "Ada Example",
		Email: "not-an-email",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestImportLeadsKeepsValidRows(t *testing.T) {
	t.Parallel()
	f := newFixture()
	userID := uuid.New()

	result, err := f.svc.ImportLeads(context.Background(), userID, []CreateLeadRequest{
		{Name: "Ada Example", Email: "ada@example.com"},
		{Name: "", Email: "missing-name@example.com"},
		{Name: "Grace Example", Email: "grace@example.com"},
		{Name: "Bad Email", Email: "nope"},
	})
	if err != nil {
		t.Fatalf("import leads: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("imported = %d, want 2", result.Imported)
	}
	if len(result.Rejected) != 2 {
		t.Fatalf("rejected = %d, want 2", len(result.Rejected))
	}
	if result.Rejected[0].Index != 1 || result.Rejected[1].Index != 3 {
		t.Fatalf("rejected indexes = %+v, want rows 1 and 3", result.Rejected)
	}
	if len(f.leads.records) != 2 {
		t.Fatalf("stored leads = %d, want 2", len(f.leads.records))
	}
}

func TestListLeadsFiltersBySource(t *testing.T) {
	t.Parallel()
	f := newFixture()
	userID := uuid.New()

	if _, err := f.svc.CreateLead(context.Background(), userID, CreateLeadRequest{Name: "Ada", Email: "ada@example.com", Source: "manual"}); err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if _, err := f.svc.CreateLead(context.Background(), userID, CreateLeadRequest{Name: "Grace", Email: "grace@example.com", Source: "import"}); err != nil {
		t.Fatalf("create lead: %v", err)
	}

	leads, err := f.svc.ListLeads(context.Background(), userID, "import", nil, 0, 0)
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if len(leads) != 1 || leads[0].Name != "Grace" {
		t.Fatalf("filtered leads = %+v, want only Grace", leads)
	}
}
