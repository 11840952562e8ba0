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

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db      pgPool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository constructs a repository backed by any pool that
// satisfies pgPool.
func NewAccountRepository(db pgPool) *AccountRepository {
	return &AccountRepository{
		db:      db,
		exec:    db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	if tx == nil {
		return r
	}
	return &AccountRepository{
		db:      r.db,
		exec:    tx,
		builder: r.builder,
	}
}

var accountColumns = []string{
	"id",
	"email",
	"username",
	"password_hash",
	"role",
	"status",
	"display_name",
	"bio",
	"avatar_url",
	"reputation_points",
	"created_at",
}

// Create inserts a new account row.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	sql, args, err := r.builder.Insert("recon.accounts").
		Columns(accountColumns...).
		Values(
			account.ID,
			account.Email,
			account.Username,
			account.PasswordHash,
			account.Role,
			account.Status,
			account.DisplayName,
			account.Bio,
			account.AvatarURL,
			account.ReputationPoints,
			account.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// CreateWithOrganization inserts the account and its owned organization in one
// transaction. A failure on either insert leaves no rows behind.
func (r *AccountRepository) CreateWithOrganization(ctx context.Context, account domain.Account, org domain.Organization) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.WithTx(tx).Create(ctx, account); err != nil {
		return err
	}

	sql, args, err := r.builder.Insert("recon.organizations").
		Columns("id", "owner_id", "name", "website_url", "logo_url").
		Values(org.ID, org.OwnerID, org.Name, org.WebsiteURL, org.LogoURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert organization sql: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an account by email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

// GetByUsername retrieves an account by username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

func (r *AccountRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("recon.accounts").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.DisplayName,
		&account.Bio,
		&account.AvatarURL,
		&account.ReputationPoints,
		&account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	return &account, nil
}

// Update persists mutable profile fields of an account.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	sql, args, err := r.builder.Update("recon.accounts").
		Set("display_name", account.DisplayName).
		Set("bio", account.Bio).
		Set("avatar_url", account.AvatarURL).
		Set("reputation_points", account.ReputationPoints).
		Where(squirrel.Eq{"id": account.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update account sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateAvatarURL replaces only the account's avatar URL.
func (r *AccountRepository) UpdateAvatarURL(ctx context.Context, id, avatarURL string) error {
	sql, args, err := r.builder.Update("recon.accounts").
		Set("avatar_url", avatarURL).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update avatar sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// TopByReputation returns the highest-reputation accounts for the leaderboard.
func (r *AccountRepository) TopByReputation(ctx context.Context, limit int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 10
	}

	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("recon.accounts").
		Where(squirrel.Eq{"role": domain.RoleHacker}).
		OrderBy("reputation_points DESC", "created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.Email,
			&account.Username,
			&account.PasswordHash,
			&account.Role,
			&account.Status,
			&account.DisplayName,
			&account.Bio,
			&account.AvatarURL,
			&account.ReputationPoints,
			&account.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

var _ port.AccountRepository = (*AccountRepository)(nil)
