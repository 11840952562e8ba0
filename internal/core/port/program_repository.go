package port

import (
	"context"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

// ProgramRepository persists bounty programs.
type ProgramRepository interface {
	Create(ctx context.Context, program domain.Program) error
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	List(ctx context.Context) ([]domain.Program, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Program, error)
	// GetOwnerAccountID resolves program -> organization -> owner account in one
	// explicit query. Ownership checks must never rely on relation traversal.
	GetOwnerAccountID(ctx context.Context, programID string) (string, error)
}
