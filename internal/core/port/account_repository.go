package port

import (
	"context"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

// AccountRepository persists accounts. Create and CreateWithOrganization surface
// unique-constraint violations as repository.ErrDuplicateEmail or
// repository.ErrDuplicateUsername; the constraint is the authoritative
// uniqueness guarantee under concurrent registration.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	// CreateWithOrganization inserts the account and its owned organization as
	// one atomic unit: either both rows persist or neither does.
	CreateWithOrganization(ctx context.Context, account domain.Account, org domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
	UpdateAvatarURL(ctx context.Context, id, avatarURL string) error
	TopByReputation(ctx context.Context, limit int) ([]domain.Account, error)
}

// OrganizationRepository persists organizations. Creation happens only through
// AccountRepository.CreateWithOrganization.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*domain.Organization, error)
	UpdateLogoURL(ctx context.Context, id, logoURL string) error
}
