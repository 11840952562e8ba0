package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

func newProfileFixture(t *testing.T) (*ProfileService, *mockAccountRepository, *mockReportRepository) {
	t.Helper()

	accounts := newMockAccountRepository()
	reports := newMockReportRepository()
	service, err := NewProfileService(accounts, reports)
	if err != nil {
		t.Fatalf("NewProfileService: %v", err)
	}
	return service, accounts, reports
}

func TestGetProfileSanitizes(t *testing.T) {
	service, accounts, _ := newProfileFixture(t)
	accounts.put(domain.Account{
		ID:           "acc-1",
		Email:        "secret@example.com",
		Username:     "hunter",
		PasswordHash: "hash",
		DisplayName:  "Hunter",
	})

	profile, err := service.GetProfile(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Email != "" || profile.PasswordHash != "" {
		t.Error("profile leaks email or password hash")
	}
	if profile.DisplayName != "Hunter" {
		t.Errorf("display name = %q", profile.DisplayName)
	}

	if _, err := service.GetProfile(context.Background(), "missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("missing account: err = %v, want ErrAccountNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	service, accounts, _ := newProfileFixture(t)
	accounts.put(domain.Account{ID: "acc-1", Username: "hunter", DisplayName: "Old Name", Bio: "old bio"})

	updated, err := service.UpdateProfile(context.Background(), hackerPrincipalWithID("acc-1"), UpdateProfileInput{
		DisplayName: "New Name",
		Bio:         "new bio",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.DisplayName != "New Name" || updated.Bio != "new bio" {
		t.Errorf("updated = %q / %q", updated.DisplayName, updated.Bio)
	}

	// Blank display name keeps the stored one; bio may be cleared.
	updated, err = service.UpdateProfile(context.Background(), hackerPrincipalWithID("acc-1"), UpdateProfileInput{
		DisplayName: "   ",
		Bio:         "",
	})
	if err != nil {
		t.Fatalf("UpdateProfile blank: %v", err)
	}
	if updated.DisplayName != "New Name" {
		t.Errorf("display name = %q, want unchanged", updated.DisplayName)
	}
	if updated.Bio != "" {
		t.Errorf("bio = %q, want cleared", updated.Bio)
	}
}

func hackerPrincipalWithID(id string) *domain.Principal {
	return &domain.Principal{AccountID: id, Role: domain.RoleHacker}
}

func TestGetStats(t *testing.T) {
	service, accounts, reports := newProfileFixture(t)
	accounts.put(domain.Account{ID: "acc-1", ReputationPoints: 420})
	reports.countTotal = 7
	reports.countByStatus[domain.ReportStatusAccepted] = 3
	reports.countByStatus[domain.ReportStatusResolved] = 2
	reports.sumMinBounty = 1500

	stats, err := service.GetStats(context.Background(), hackerPrincipalWithID("acc-1"))
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalReports != 7 || stats.AcceptedReports != 3 || stats.ResolvedReports != 2 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.TotalEarnings != 1500 {
		t.Errorf("earnings = %d, want 1500", stats.TotalEarnings)
	}
	if stats.ReputationPoints != 420 {
		t.Errorf("reputation = %d, want 420", stats.ReputationPoints)
	}
}

func TestGetLeaderboardSanitizes(t *testing.T) {
	service, accounts, _ := newProfileFixture(t)
	accounts.topResult = []domain.Account{
		{ID: "a", Email: "a@example.com", PasswordHash: "h", ReputationPoints: 900},
		{ID: "b", Email: "b@example.com", PasswordHash: "h", ReputationPoints: 500},
	}

	leaders, err := service.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(leaders) != 2 {
		t.Fatalf("leaders = %d, want 2", len(leaders))
	}
	for _, leader := range leaders {
		if leader.Email != "" || leader.PasswordHash != "" {
			t.Errorf("leader %s leaks email or password hash", leader.ID)
		}
	}
}
