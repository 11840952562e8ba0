package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/infra/logger"
	"github.com/outer-user-333/recon-0-lite/internal/infra/security"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownRole indicates the requested role is outside the recognized set.
	ErrUnknownRole = errors.New("unknown role")
	// ErrWeakPassword indicates the password failed strength validation.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	// ErrMissingOrganizationName indicates an organization signup without a name.
	ErrMissingOrganizationName = errors.New("organization name is required")
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Email            string
	Username         string
	Password         string
	Role             string
	OrganizationName string
}

// AuthService coordinates registration and credential verification.
type AuthService struct {
	accounts  port.AccountRepository
	validator *security.PasswordValidator
	tokens    *security.TokenIssuer
	events    port.EventPublisher
	dummyHash string
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	accounts port.AccountRepository,
	validator *security.PasswordValidator,
	tokens *security.TokenIssuer,
	events port.EventPublisher,
) (*AuthService, error) {
	if accounts == nil {
		return nil, errors.New("account repository is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}

	// Hashing a throwaway value once keeps failed lookups on the same code
	// path cost as real verifications.
	dummyHash, err := security.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		accounts:  accounts,
		validator: validator,
		tokens:    tokens,
		events:    events,
		dummyHash: dummyHash,
	}, nil
}

// Register creates an account and, for organization signups, its organization
// in one atomic unit. A session token is minted for the new account so the
// client is signed in immediately.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, *domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if email == "" {
		return "", nil, fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return "", nil, fmt.Errorf("email is malformed")
	}
	if username == "" {
		return "", nil, fmt.Errorf("username is required")
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return "", nil, ErrUnknownRole
	}

	orgName := strings.TrimSpace(input.OrganizationName)
	if role == domain.RoleOrganization && orgName == "" {
		return "", nil, ErrMissingOrganizationName
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	// Advisory pre-checks keep the reported field deterministic when both
	// collide; the DB constraints remain the source of truth under races.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return "", nil, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return "", nil, repository.ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.AccountStatusActive,
		DisplayName:  username,
		CreatedAt:    now,
	}

	if role == domain.RoleOrganization {
		org := domain.Organization{
			ID:      uuid.NewString(),
			OwnerID: account.ID,
			Name:    orgName,
		}
		err = s.accounts.CreateWithOrganization(ctx, account, org)
	} else {
		err = s.accounts.Create(ctx, account)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateUsername) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.Issue(account.ID, string(account.Role), now)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	if s.events != nil {
		event := domain.AccountRegisteredEvent{
			AccountID:    account.ID,
			Username:     account.Username,
			Role:         account.Role,
			RegisteredAt: now,
		}
		if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
			logger.WithContext(ctx).Warn("publish account registered event failed",
				zap.String("account_id", account.ID),
				zap.Error(err),
			)
		}
	}

	account.PasswordHash = ""
	account.Email = ""
	return token, &account, nil
}

// Login verifies credentials and issues a session token. Absent accounts,
// wrong passwords, and suspended accounts are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a verification against the dummy hash so response timing
			// does not reveal whether the email exists.
			_, _ = security.VerifyPassword(password, s.dummyHash)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		logger.WithContext(ctx).Debug("login rejected",
			zap.String("email", logger.MaskEmail(email)),
			zap.String("reason", "password mismatch"),
		)
		return "", nil, ErrInvalidCredentials
	}

	if account.Status != domain.AccountStatusActive {
		logger.WithContext(ctx).Debug("login rejected",
			zap.String("email", logger.MaskEmail(email)),
			zap.String("reason", "account not active"),
		)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, string(account.Role), time.Now().UTC())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	sanitized := *account
	sanitized.PasswordHash = ""
	sanitized.Email = ""
	return token, &sanitized, nil
}
