package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/infra/security"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

var (
	// ErrUnauthorized indicates the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the session is valid but lacks permission.
	ErrForbidden = errors.New("forbidden")
)

// AccessService resolves session tokens into live principals and enforces
// role and ownership checks.
type AccessService struct {
	tokens   *security.TokenIssuer
	accounts port.AccountRepository
}

// NewAccessService constructs an AccessService instance.
func NewAccessService(tokens *security.TokenIssuer, accounts port.AccountRepository) (*AccessService, error) {
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if accounts == nil {
		return nil, errors.New("account repository is required")
	}
	return &AccessService{tokens: tokens, accounts: accounts}, nil
}

// ResolvePrincipal validates the token and re-fetches the account so that a
// suspended or deleted account loses access immediately, regardless of what
// the token claims.
func (s *AccessService) ResolvePrincipal(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if account.Status != domain.AccountStatusActive {
		return nil, ErrUnauthorized
	}

	// The stored role is authoritative. Token claims only carry a hint.
	return &domain.Principal{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}, nil
}

// RequireRole returns ErrForbidden unless the principal holds the role.
func (s *AccessService) RequireRole(principal *domain.Principal, role domain.Role) error {
	if principal == nil {
		return ErrUnauthorized
	}
	if principal.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireOwnership returns ErrForbidden unless the principal owns the resource.
func (s *AccessService) RequireOwnership(principal *domain.Principal, ownerAccountID string) error {
	if principal == nil {
		return ErrUnauthorized
	}
	if principal.AccountID != ownerAccountID {
		return ErrForbidden
	}
	return nil
}
