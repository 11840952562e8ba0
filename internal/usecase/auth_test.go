package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/infra/security"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

const strongPassword = "Tr0ub4dor&3-horse-staple"

func newTestAuthService(t *testing.T, accounts *mockAccountRepository, events *mockEventPublisher) *AuthService {
	t.Helper()

	tokens, err := security.NewTokenIssuer("test-secret-at-least-long-enough", time.Hour, "recon-test")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	if events == nil {
		events = &mockEventPublisher{}
	}
	service, err := NewAuthService(accounts, security.DefaultPasswordValidator(), tokens, events)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return service
}

func TestRegisterAndLoginRoundtrip(t *testing.T) {
	accounts := newMockAccountRepository()
	events := &mockEventPublisher{}
	service := newTestAuthService(t, accounts, events)

	regToken, account, err := service.Register(context.Background(), RegisterInput{
		Email:    "Hunter@Example.COM",
		Username: "hunter",
		Password: strongPassword,
		Role:     "hacker",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if regToken == "" {
		t.Fatal("register response carries no session token")
	}
	if account.Email != "" {
		t.Errorf("email leaked in register response: %q", account.Email)
	}
	if account.PasswordHash != "" {
		t.Error("password hash leaked in register response")
	}
	if account.Role != domain.RoleHacker {
		t.Errorf("role = %q, want hacker", account.Role)
	}
	if accounts.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", accounts.createCalls)
	}
	if len(events.registeredEvents) != 1 {
		t.Fatalf("registered events = %d, want 1", len(events.registeredEvents))
	}
	if events.registeredEvents[0].AccountID != account.ID {
		t.Error("event carries wrong account id")
	}

	// Logging in with the normalized form proves the stored email was
	// lowercased even though the responses never echo it.
	token, loggedIn, err := service.Login(context.Background(), "hunter@example.com", strongPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if loggedIn.ID != account.ID {
		t.Errorf("login account id = %q, want %q", loggedIn.ID, account.ID)
	}
	if loggedIn.Email != "" {
		t.Errorf("email leaked in login response: %q", loggedIn.Email)
	}
	if loggedIn.PasswordHash != "" {
		t.Error("password hash leaked in login response")
	}

	tokens, err := security.NewTokenIssuer("test-secret-at-least-long-enough", time.Hour, "recon-test")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	for _, issued := range []string{regToken, token} {
		claims, err := tokens.Parse(issued)
		if err != nil {
			t.Fatalf("Parse issued token: %v", err)
		}
		if claims.Subject != account.ID {
			t.Errorf("token subject = %q, want %q", claims.Subject, account.ID)
		}
	}
}

func TestRegisterUnknownRole(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	_, _, err := service.Register(context.Background(), RegisterInput{
		Email:    "x@example.com",
		Username: "x",
		Password: strongPassword,
		Role:     "admin",
	})
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("err = %v, want ErrUnknownRole", err)
	}
	if accounts.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", accounts.createCalls)
	}
}

func TestRegisterOrganizationRequiresName(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	_, _, err := service.Register(context.Background(), RegisterInput{
		Email:    "corp@example.com",
		Username: "corp",
		Password: strongPassword,
		Role:     "organization",
	})
	if !errors.Is(err, ErrMissingOrganizationName) {
		t.Fatalf("err = %v, want ErrMissingOrganizationName", err)
	}
	if accounts.createCalls != 0 || accounts.createWithOrgCalls != 0 {
		t.Error("no repository writes expected on rejected input")
	}
}

func TestRegisterOrganizationCreatesOrgAtomically(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	_, account, err := service.Register(context.Background(), RegisterInput{
		Email:            "corp@example.com",
		Username:         "corp",
		Password:         strongPassword,
		Role:             "organization",
		OrganizationName: "Acme Security",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if accounts.createWithOrgCalls != 1 {
		t.Fatalf("createWithOrgCalls = %d, want 1", accounts.createWithOrgCalls)
	}
	if accounts.createdOrg.OwnerID != account.ID {
		t.Errorf("org owner = %q, want %q", accounts.createdOrg.OwnerID, account.ID)
	}
	if accounts.createdOrg.Name != "Acme Security" {
		t.Errorf("org name = %q", accounts.createdOrg.Name)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	input := RegisterInput{
		Email:    "dup@example.com",
		Username: "first",
		Password: strongPassword,
		Role:     "hacker",
	}
	if _, _, err := service.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	input.Username = "second"
	_, _, err := service.Register(context.Background(), input)
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterReportsEmailCollisionFirst(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	// Email and username are each taken by a different account, so the
	// insert alone could surface either violation. The pre-checks make the
	// email collision win every time.
	accounts.put(domain.Account{ID: "acc-1", Email: "taken@example.com", Username: "someone-else"})
	accounts.put(domain.Account{ID: "acc-2", Email: "other@example.com", Username: "taken"})

	for i := 0; i < 5; i++ {
		_, _, err := service.Register(context.Background(), RegisterInput{
			Email:    "taken@example.com",
			Username: "taken",
			Password: strongPassword,
			Role:     "hacker",
		})
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			t.Fatalf("err = %v, want ErrDuplicateEmail", err)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	accounts.put(domain.Account{ID: "acc-1", Email: "other@example.com", Username: "taken"})

	_, _, err := service.Register(context.Background(), RegisterInput{
		Email:    "fresh@example.com",
		Username: "taken",
		Password: strongPassword,
		Role:     "hacker",
	})
	if !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
}

func TestRegisterConcurrentDuplicateEmail(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	results := make(chan error, 2)
	for _, username := range []string{"racer-one", "racer-two"} {
		go func(username string) {
			_, _, err := service.Register(context.Background(), RegisterInput{
				Email:    "race@example.com",
				Username: username,
				Password: strongPassword,
				Role:     "hacker",
			})
			results <- err
		}(username)
	}

	var successes, duplicates int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			successes++
		case errors.Is(err, repository.ErrDuplicateEmail):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || duplicates != 1 {
		t.Fatalf("successes = %d, duplicates = %d, want exactly one of each", successes, duplicates)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	_, _, err := service.Register(context.Background(), RegisterInput{
		Email:    "weak@example.com",
		Username: "weak",
		Password: "123456",
		Role:     "hacker",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	accounts := newMockAccountRepository()
	service := newTestAuthService(t, accounts, nil)

	if _, _, err := service.Register(context.Background(), RegisterInput{
		Email:    "real@example.com",
		Username: "real",
		Password: strongPassword,
		Role:     "hacker",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, suspended, err := service.Register(context.Background(), RegisterInput{
		Email:    "frozen@example.com",
		Username: "frozen",
		Password: strongPassword,
		Role:     "hacker",
	})
	if err != nil {
		t.Fatalf("Register suspended: %v", err)
	}
	stored := accounts.accounts[suspended.ID]
	stored.Status = domain.AccountStatusSuspended

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", strongPassword},
		{"wrong password", "real@example.com", "not-the-password-1!"},
		{"suspended account", "frozen@example.com", strongPassword},
		{"blank password", "real@example.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := service.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
