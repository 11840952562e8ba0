package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

// OrganizationRepository implements port.OrganizationRepository using PostgreSQL.
type OrganizationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOrganizationRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewOrganizationRepository(exec pgExecutor) *OrganizationRepository {
	return &OrganizationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *OrganizationRepository) WithTx(tx pgx.Tx) *OrganizationRepository {
	if tx == nil {
		return r
	}
	return &OrganizationRepository{
		exec:    tx,
		builder: r.builder,
	}
}

var organizationColumns = []string{"id", "owner_id", "name", "website_url", "logo_url"}

// GetByID retrieves an organization by identifier.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByOwnerID retrieves the organization owned by the given account.
func (r *OrganizationRepository) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"owner_id": ownerID})
}

func (r *OrganizationRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Organization, error) {
	stmt, args, err := r.builder.
		Select(organizationColumns...).
		From("recon.organizations").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select organization sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var org domain.Organization
	if err := row.Scan(
		&org.ID,
		&org.OwnerID,
		&org.Name,
		&org.WebsiteURL,
		&org.LogoURL,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}

	return &org, nil
}

// UpdateLogoURL replaces only the organization's logo URL.
func (r *OrganizationRepository) UpdateLogoURL(ctx context.Context, id, logoURL string) error {
	sql, args, err := r.builder.Update("recon.organizations").
		Set("logo_url", logoURL).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update logo sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.OrganizationRepository = (*OrganizationRepository)(nil)
