package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	uuid "github.com/google/uuid"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

var (
	// ErrOrganizationNotFound indicates the principal owns no organization.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrInvalidBountyRange indicates min/max bounty values are inconsistent.
	ErrInvalidBountyRange = errors.New("invalid bounty range")
)

// CreateProgramInput carries the fields of a new bounty program.
type CreateProgramInput struct {
	Title       string
	Description string
	Policy      string
	Scope       string
	OutOfScope  string
	MinBounty   int
	MaxBounty   int
	Tags        []string
}

// Dashboard aggregates an organization's triage workload.
type Dashboard struct {
	Organization  domain.Organization
	ProgramCount  int
	TotalReports  int
	StatusCounts  map[domain.ReportStatus]int
	RecentReports []domain.Report
}

// OrganizationService covers the organization-side surface: program
// publication and triage overview.
type OrganizationService struct {
	organizations port.OrganizationRepository
	programs      port.ProgramRepository
	reports       port.ReportRepository
}

// NewOrganizationService constructs an OrganizationService instance.
func NewOrganizationService(
	organizations port.OrganizationRepository,
	programs port.ProgramRepository,
	reports port.ReportRepository,
) (*OrganizationService, error) {
	if organizations == nil {
		return nil, errors.New("organization repository is required")
	}
	if programs == nil {
		return nil, errors.New("program repository is required")
	}
	if reports == nil {
		return nil, errors.New("report repository is required")
	}
	return &OrganizationService{
		organizations: organizations,
		programs:      programs,
		reports:       reports,
	}, nil
}

func (s *OrganizationService) ownedOrganization(ctx context.Context, principal *domain.Principal) (*domain.Organization, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}
	if principal.Role != domain.RoleOrganization {
		return nil, ErrForbidden
	}

	org, err := s.organizations.GetByOwnerID(ctx, principal.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("lookup organization: %w", err)
	}
	return org, nil
}

// CreateProgram publishes a new bounty program under the principal's organization.
func (s *OrganizationService) CreateProgram(ctx context.Context, principal *domain.Principal, input CreateProgramInput) (*domain.Program, error) {
	org, err := s.ownedOrganization(ctx, principal)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.MinBounty < 0 || input.MaxBounty < input.MinBounty {
		return nil, ErrInvalidBountyRange
	}

	program := domain.Program{
		ID:             uuid.NewString(),
		OrganizationID: org.ID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Policy:         input.Policy,
		Scope:          input.Scope,
		OutOfScope:     input.OutOfScope,
		MinBounty:      input.MinBounty,
		MaxBounty:      input.MaxBounty,
		Tags:           input.Tags,
	}

	if err := s.programs.Create(ctx, program); err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return &program, nil
}

// GetMyPrograms lists the programs of the principal's organization.
func (s *OrganizationService) GetMyPrograms(ctx context.Context, principal *domain.Principal) ([]domain.Program, error) {
	org, err := s.ownedOrganization(ctx, principal)
	if err != nil {
		return nil, err
	}

	programs, err := s.programs.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// GetOrgReports lists reports filed against any of the organization's programs.
func (s *OrganizationService) GetOrgReports(ctx context.Context, principal *domain.Principal) ([]domain.Report, error) {
	org, err := s.ownedOrganization(ctx, principal)
	if err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// GetDashboard computes the organization's triage overview.
func (s *OrganizationService) GetDashboard(ctx context.Context, principal *domain.Principal) (*Dashboard, error) {
	org, err := s.ownedOrganization(ctx, principal)
	if err != nil {
		return nil, err
	}

	programs, err := s.programs.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}

	reports, err := s.reports.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	statusCounts := make(map[domain.ReportStatus]int)
	for _, report := range reports {
		statusCounts[report.Status]++
	}

	recent := reports
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return &Dashboard{
		Organization:  *org,
		ProgramCount:  len(programs),
		TotalReports:  len(reports),
		StatusCounts:  statusCounts,
		RecentReports: recent,
	}, nil
}
