package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/infra/security"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	// Light hashing parameters keep credential tests fast.
	_ = security.ConfigureArgon2(security.Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	})
	os.Exit(m.Run())
}

// memoryAccountRepo is a minimal port.AccountRepository for handler tests.
type memoryAccountRepo struct {
	accounts map[string]domain.Account
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[string]domain.Account)}
}

func (m *memoryAccountRepo) Create(_ context.Context, account domain.Account) error {
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Username == account.Username {
			return repository.ErrDuplicateUsername
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *memoryAccountRepo) CreateWithOrganization(ctx context.Context, account domain.Account, _ domain.Organization) error {
	return m.Create(ctx, account)
}

func (m *memoryAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if account, ok := m.accounts[id]; ok {
		return &account, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range m.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccountRepo) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	for _, account := range m.accounts {
		if account.Username == username {
			return &account, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccountRepo) Update(_ context.Context, account domain.Account) error {
	m.accounts[account.ID] = account
	return nil
}

func (m *memoryAccountRepo) UpdateAvatarURL(_ context.Context, id, avatarURL string) error {
	account := m.accounts[id]
	account.AvatarURL = avatarURL
	m.accounts[id] = account
	return nil
}

func (m *memoryAccountRepo) TopByReputation(context.Context, int) ([]domain.Account, error) {
	return nil, nil
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	tokens, err := security.NewTokenIssuer("handler-test-secret-long-enough", time.Hour, "recon-test")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	auth, err := usecase.NewAuthService(newMemoryAccountRepo(), security.DefaultPasswordValidator(), tokens, nil)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	r := gin.New()
	NewAuthHandler(auth).RegisterRoutes(r.Group("/auth"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterResponseCarriesTokenAndNoEmail(t *testing.T) {
	r := newAuthRouter(t)

	rec := postJSON(t, r, "/auth/register",
		`{"email":"alice@example.com","username":"alice","password":"Tr0ub4dor&3-horse-staple","role":"hacker"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("register response carries no session token")
	}
	if resp.Account.Username != "alice" {
		t.Errorf("username = %q", resp.Account.Username)
	}
	if strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Error("register response leaks the email address")
	}
}

func TestLoginResponseCarriesTokenAndNoEmail(t *testing.T) {
	r := newAuthRouter(t)

	if rec := postJSON(t, r, "/auth/register",
		`{"email":"alice@example.com","username":"alice","password":"Tr0ub4dor&3-horse-staple","role":"hacker"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec := postJSON(t, r, "/auth/login",
		`{"email":"alice@example.com","password":"Tr0ub4dor&3-horse-staple"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("login response carries no session token")
	}
	if strings.Contains(rec.Body.String(), "alice@example.com") {
		t.Error("login response leaks the email address")
	}
}
