package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Accounts      *AccountRepository
	Organizations *OrganizationRepository
	Programs      *ProgramRepository
	Reports       *ReportRepository
	Notifications *NotificationRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Accounts:      NewAccountRepository(pool),
		Organizations: NewOrganizationRepository(pool),
		Programs:      NewProgramRepository(pool),
		Reports:       NewReportRepository(pool),
		Notifications: NewNotificationRepository(pool),
	}
}
