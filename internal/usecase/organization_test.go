package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

type orgFixture struct {
	service       *OrganizationService
	organizations *mockOrganizationRepository
	programs      *mockProgramRepository
	reports       *mockReportRepository
}

func newOrgFixture(t *testing.T) *orgFixture {
	t.Helper()

	organizations := newMockOrganizationRepository()
	programs := newMockProgramRepository()
	reports := newMockReportRepository()

	service, err := NewOrganizationService(organizations, programs, reports)
	if err != nil {
		t.Fatalf("NewOrganizationService: %v", err)
	}
	return &orgFixture{
		service:       service,
		organizations: organizations,
		programs:      programs,
		reports:       reports,
	}
}

func seedOrganization(f *orgFixture) domain.Organization {
	org := domain.Organization{ID: "org-1", OwnerID: orgPrincipal.AccountID, Name: "Acme Security"}
	f.organizations.put(org)
	return org
}

func TestCreateProgram(t *testing.T) {
	f := newOrgFixture(t)
	seedOrganization(f)

	program, err := f.service.CreateProgram(context.Background(), orgPrincipal, CreateProgramInput{
		Title:     "  Acme Web  ",
		MinBounty: 100,
		MaxBounty: 5000,
		Tags:      []string{"web", "api"},
	})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	if program.Title != "Acme Web" {
		t.Errorf("title not trimmed: %q", program.Title)
	}
	if program.OrganizationID != "org-1" {
		t.Errorf("organization id = %q", program.OrganizationID)
	}
	if f.programs.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", f.programs.createCalls)
	}
}

func TestCreateProgramInvalidBountyRange(t *testing.T) {
	f := newOrgFixture(t)
	seedOrganization(f)

	cases := []struct {
		name     string
		min, max int
	}{
		{"negative min", -1, 100},
		{"max below min", 500, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateProgram(context.Background(), orgPrincipal, CreateProgramInput{
				Title:     "p",
				MinBounty: tc.min,
				MaxBounty: tc.max,
			})
			if !errors.Is(err, ErrInvalidBountyRange) {
				t.Fatalf("err = %v, want ErrInvalidBountyRange", err)
			}
		})
	}
	if f.programs.createCalls != 0 {
		t.Error("no create expected")
	}
}

func TestCreateProgramRequiresOrganizationRole(t *testing.T) {
	f := newOrgFixture(t)
	seedOrganization(f)

	_, err := f.service.CreateProgram(context.Background(), hackerPrincipal, CreateProgramInput{Title: "p"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestCreateProgramWithoutOrganization(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.service.CreateProgram(context.Background(), orgPrincipal, CreateProgramInput{Title: "p"})
	if !errors.Is(err, ErrOrganizationNotFound) {
		t.Fatalf("err = %v, want ErrOrganizationNotFound", err)
	}
}

func TestGetDashboard(t *testing.T) {
	f := newOrgFixture(t)
	seedOrganization(f)
	f.programs.put(domain.Program{ID: "prog-1", OrganizationID: "org-1"}, orgPrincipal.AccountID)
	f.programs.put(domain.Program{ID: "prog-2", OrganizationID: "org-1"}, orgPrincipal.AccountID)

	f.reports.put(domain.Report{ID: "rep-1", ProgramID: "prog-1", Status: domain.ReportStatusSubmitted}, nil)
	f.reports.put(domain.Report{ID: "rep-2", ProgramID: "prog-1", Status: domain.ReportStatusSubmitted}, nil)
	f.reports.put(domain.Report{ID: "rep-3", ProgramID: "prog-2", Status: domain.ReportStatusAccepted}, nil)

	dashboard, err := f.service.GetDashboard(context.Background(), orgPrincipal)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if dashboard.ProgramCount != 2 {
		t.Errorf("program count = %d, want 2", dashboard.ProgramCount)
	}
	if dashboard.TotalReports != 3 {
		t.Errorf("total reports = %d, want 3", dashboard.TotalReports)
	}
	if dashboard.StatusCounts[domain.ReportStatusSubmitted] != 2 {
		t.Errorf("submitted count = %d, want 2", dashboard.StatusCounts[domain.ReportStatusSubmitted])
	}
	if dashboard.StatusCounts[domain.ReportStatusAccepted] != 1 {
		t.Errorf("accepted count = %d, want 1", dashboard.StatusCounts[domain.ReportStatusAccepted])
	}
	if len(dashboard.RecentReports) > 5 {
		t.Errorf("recent reports = %d, want at most 5", len(dashboard.RecentReports))
	}
}
