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

// ProgramRepository implements port.ProgramRepository using PostgreSQL.
type ProgramRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProgramRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewProgramRepository(exec pgExecutor) *ProgramRepository {
	return &ProgramRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ProgramRepository) WithTx(tx pgx.Tx) *ProgramRepository {
	if tx == nil {
		return r
	}
	return &ProgramRepository{
		exec:    tx,
		builder: r.builder,
	}
}

var programColumns = []string{
	"id",
	"organization_id",
	"title",
	"description",
	"policy",
	"scope",
	"out_of_scope",
	"min_bounty",
	"max_bounty",
	"tags",
}

// Create inserts a new program row.
func (r *ProgramRepository) Create(ctx context.Context, program domain.Program) error {
	sql, args, err := r.builder.Insert("recon.programs").
		Columns(programColumns...).
		Values(
			program.ID,
			program.OrganizationID,
			program.Title,
			program.Description,
			program.Policy,
			program.Scope,
			program.OutOfScope,
			program.MinBounty,
			program.MaxBounty,
			program.Tags,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert program sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert program: %w", err)
	}

	return nil
}

// GetByID retrieves a program by identifier.
func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	stmt, args, err := r.builder.
		Select(programColumns...).
		From("recon.programs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select program sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	program, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan program: %w", err)
	}

	return program, nil
}

// List returns every published program.
func (r *ProgramRepository) List(ctx context.Context) ([]domain.Program, error) {
	return r.list(ctx, nil)
}

// ListByOrganization returns programs owned by the given organization.
func (r *ProgramRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Program, error) {
	return r.list(ctx, squirrel.Eq{"organization_id": organizationID})
}

func (r *ProgramRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.Program, error) {
	query := r.builder.
		Select(programColumns...).
		From("recon.programs").
		OrderBy("title ASC")
	if pred != nil {
		query = query.Where(pred)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list programs sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	var programs []domain.Program
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, *program)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}

	return programs, nil
}

// GetOwnerAccountID resolves the owning account of a program with one join.
func (r *ProgramRepository) GetOwnerAccountID(ctx context.Context, programID string) (string, error) {
	stmt, args, err := r.builder.
		Select("o.owner_id").
		From("recon.programs p").
		Join("recon.organizations o ON o.id = p.organization_id").
		Where(squirrel.Eq{"p.id": programID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build program owner sql: %w", err)
	}

	var ownerID string
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("scan program owner: %w", err)
	}

	return ownerID, nil
}

func scanProgram(row pgx.Row) (*domain.Program, error) {
	var program domain.Program
	if err := row.Scan(
		&program.ID,
		&program.OrganizationID,
		&program.Title,
		&program.Description,
		&program.Policy,
		&program.Scope,
		&program.OutOfScope,
		&program.MinBounty,
		&program.MaxBounty,
		&program.Tags,
	); err != nil {
		return nil, err
	}
	return &program, nil
}

var _ port.ProgramRepository = (*ProgramRepository)(nil)
