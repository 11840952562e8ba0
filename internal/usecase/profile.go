package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

// ErrAccountNotFound indicates the requested account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName string
	Bio         string
}

// HackerStats aggregates a reporter's track record.
type HackerStats struct {
	TotalReports     int
	AcceptedReports  int
	ResolvedReports  int
	TotalEarnings    int
	ReputationPoints int
}

// ProfileService covers public profiles, self-service updates, and hacker stats.
type ProfileService struct {
	accounts port.AccountRepository
	reports  port.ReportRepository
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(accounts port.AccountRepository, reports port.ReportRepository) (*ProfileService, error) {
	if accounts == nil {
		return nil, errors.New("account repository is required")
	}
	if reports == nil {
		return nil, errors.New("report repository is required")
	}
	return &ProfileService{accounts: accounts, reports: reports}, nil
}

// GetProfile returns a public view of an account.
func (s *ProfileService) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	sanitized := *account
	sanitized.PasswordHash = ""
	sanitized.Email = ""
	return &sanitized, nil
}

// UpdateProfile persists the principal's display name and bio.
func (s *ProfileService) UpdateProfile(ctx context.Context, principal *domain.Principal, input UpdateProfileInput) (*domain.Account, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	account, err := s.accounts.GetByID(ctx, principal.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if name := strings.TrimSpace(input.DisplayName); name != "" {
		account.DisplayName = name
	}
	account.Bio = input.Bio

	if err := s.accounts.Update(ctx, *account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	sanitized := *account
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// GetStats aggregates the principal's report counts and approximate earnings.
func (s *ProfileService) GetStats(ctx context.Context, principal *domain.Principal) (*HackerStats, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	account, err := s.accounts.GetByID(ctx, principal.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	total, err := s.reports.CountByReporter(ctx, principal.AccountID)
	if err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	accepted, err := s.reports.CountByReporterAndStatus(ctx, principal.AccountID, domain.ReportStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("count accepted reports: %w", err)
	}

	resolved, err := s.reports.CountByReporterAndStatus(ctx, principal.AccountID, domain.ReportStatusResolved)
	if err != nil {
		return nil, fmt.Errorf("count resolved reports: %w", err)
	}

	earnings, err := s.reports.SumMinBountyForAccepted(ctx, principal.AccountID)
	if err != nil {
		return nil, fmt.Errorf("sum earnings: %w", err)
	}

	return &HackerStats{
		TotalReports:     total,
		AcceptedReports:  accepted,
		ResolvedReports:  resolved,
		TotalEarnings:    earnings,
		ReputationPoints: account.ReputationPoints,
	}, nil
}

// GetLeaderboard returns the top hackers ranked by reputation.
func (s *ProfileService) GetLeaderboard(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.TopByReputation(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	for i := range accounts {
		accounts[i].PasswordHash = ""
		accounts[i].Email = ""
	}
	return accounts, nil
}
