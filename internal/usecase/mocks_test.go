package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/infra/security"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

func TestMain(m *testing.M) {
	// Light hashing parameters keep credential tests fast.
	_ = security.ConfigureArgon2(security.Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	})
	m.Run()
}

type mockAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account

	createErr          error
	createCalls        int
	createWithOrgCalls int
	createdOrg         domain.Organization

	updateCalls int
	updateErr   error

	topResult []domain.Account
	topErr    error
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *mockAccountRepository) put(account domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := account
	m.accounts[account.ID] = &copy
}

// insert assumes m.mu is held.
func (m *mockAccountRepository) insert(account domain.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Username == account.Username {
			return repository.ErrDuplicateUsername
		}
	}
	copy := account
	m.accounts[account.ID] = &copy
	return nil
}

func (m *mockAccountRepository) Create(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	return m.insert(account)
}

func (m *mockAccountRepository) CreateWithOrganization(_ context.Context, account domain.Account, org domain.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createWithOrgCalls++
	if err := m.insert(account); err != nil {
		return err
	}
	m.createdOrg = org
	return nil
}

func (m *mockAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, ok := m.accounts[id]; ok {
		copy := *account
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Email == email {
			copy := *account
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.Username == username {
			copy := *account
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) Update(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := account
	m.accounts[account.ID] = &copy
	return nil
}

func (m *mockAccountRepository) UpdateAvatarURL(_ context.Context, id, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.AvatarURL = avatarURL
	return nil
}

func (m *mockAccountRepository) TopByReputation(context.Context, int) ([]domain.Account, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}
	return m.topResult, nil
}

type mockOrganizationRepository struct {
	orgsByOwner map[string]*domain.Organization
	orgsByID    map[string]*domain.Organization
}

func newMockOrganizationRepository() *mockOrganizationRepository {
	return &mockOrganizationRepository{
		orgsByOwner: make(map[string]*domain.Organization),
		orgsByID:    make(map[string]*domain.Organization),
	}
}

func (m *mockOrganizationRepository) put(org domain.Organization) {
	copy := org
	m.orgsByOwner[org.OwnerID] = &copy
	m.orgsByID[org.ID] = &copy
}

func (m *mockOrganizationRepository) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	if org, ok := m.orgsByID[id]; ok {
		copy := *org
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrganizationRepository) GetByOwnerID(_ context.Context, ownerID string) (*domain.Organization, error) {
	if org, ok := m.orgsByOwner[ownerID]; ok {
		copy := *org
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrganizationRepository) UpdateLogoURL(_ context.Context, id, logoURL string) error {
	org, ok := m.orgsByID[id]
	if !ok {
		return repository.ErrNotFound
	}
	org.LogoURL = logoURL
	return nil
}

type mockProgramRepository struct {
	programs map[string]*domain.Program
	owners   map[string]string

	createErr   error
	createCalls int
	created     domain.Program
}

func newMockProgramRepository() *mockProgramRepository {
	return &mockProgramRepository{
		programs: make(map[string]*domain.Program),
		owners:   make(map[string]string),
	}
}

func (m *mockProgramRepository) put(program domain.Program, ownerAccountID string) {
	copy := program
	m.programs[program.ID] = &copy
	m.owners[program.ID] = ownerAccountID
}

func (m *mockProgramRepository) Create(_ context.Context, program domain.Program) error {
	m.createCalls++
	m.created = program
	if m.createErr != nil {
		return m.createErr
	}
	copy := program
	m.programs[program.ID] = &copy
	return nil
}

func (m *mockProgramRepository) GetByID(_ context.Context, id string) (*domain.Program, error) {
	if program, ok := m.programs[id]; ok {
		copy := *program
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockProgramRepository) List(context.Context) ([]domain.Program, error) {
	out := make([]domain.Program, 0, len(m.programs))
	for _, program := range m.programs {
		out = append(out, *program)
	}
	return out, nil
}

func (m *mockProgramRepository) ListByOrganization(_ context.Context, organizationID string) ([]domain.Program, error) {
	var out []domain.Program
	for _, program := range m.programs {
		if program.OrganizationID == organizationID {
			out = append(out, *program)
		}
	}
	return out, nil
}

func (m *mockProgramRepository) GetOwnerAccountID(_ context.Context, programID string) (string, error) {
	if owner, ok := m.owners[programID]; ok {
		return owner, nil
	}
	return "", repository.ErrNotFound
}

type mockReportRepository struct {
	reports     map[string]*domain.Report
	attachments map[string][]domain.ReportAttachment

	createErr   error
	createCalls int

	updateStatusErr   error
	updateStatusCalls int

	countTotal    int
	countByStatus map[domain.ReportStatus]int
	sumMinBounty  int
}

func newMockReportRepository() *mockReportRepository {
	return &mockReportRepository{
		reports:       make(map[string]*domain.Report),
		attachments:   make(map[string][]domain.ReportAttachment),
		countByStatus: make(map[domain.ReportStatus]int),
	}
}

func (m *mockReportRepository) put(report domain.Report, attachments []domain.ReportAttachment) {
	copy := report
	m.reports[report.ID] = &copy
	m.attachments[report.ID] = attachments
}

func (m *mockReportRepository) CreateWithAttachments(_ context.Context, report domain.Report, attachments []domain.ReportAttachment) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.put(report, attachments)
	return nil
}

func (m *mockReportRepository) GetByID(_ context.Context, id string) (*domain.Report, error) {
	if report, ok := m.reports[id]; ok {
		copy := *report
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockReportRepository) GetWithAttachments(ctx context.Context, id string) (*domain.ReportDetail, error) {
	report, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ReportDetail{Report: *report, Attachments: m.attachments[id]}, nil
}

func (m *mockReportRepository) ListByReporter(_ context.Context, reporterID string) ([]domain.Report, error) {
	var out []domain.Report
	for _, report := range m.reports {
		if report.ReporterID == reporterID {
			out = append(out, *report)
		}
	}
	return out, nil
}

func (m *mockReportRepository) ListByOrganization(context.Context, string) ([]domain.Report, error) {
	out := make([]domain.Report, 0, len(m.reports))
	for _, report := range m.reports {
		out = append(out, *report)
	}
	return out, nil
}

func (m *mockReportRepository) UpdateStatus(_ context.Context, id string, status domain.ReportStatus) error {
	m.updateStatusCalls++
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	report, ok := m.reports[id]
	if !ok {
		return repository.ErrNotFound
	}
	report.Status = status
	return nil
}

func (m *mockReportRepository) CountByReporter(context.Context, string) (int, error) {
	return m.countTotal, nil
}

func (m *mockReportRepository) CountByReporterAndStatus(_ context.Context, _ string, status domain.ReportStatus) (int, error) {
	return m.countByStatus[status], nil
}

func (m *mockReportRepository) SumMinBountyForAccepted(context.Context, string) (int, error) {
	return m.sumMinBounty, nil
}

type mockNotificationRepository struct {
	created   []domain.Notification
	createErr error
}

func (m *mockNotificationRepository) Create(_ context.Context, notification domain.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, notification)
	return nil
}

func (m *mockNotificationRepository) ListByAccount(_ context.Context, accountID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, notification := range m.created {
		if notification.AccountID == accountID {
			out = append(out, notification)
		}
	}
	return out, nil
}

type mockEventPublisher struct {
	registeredEvents    []domain.AccountRegisteredEvent
	submittedEvents     []domain.ReportSubmittedEvent
	statusChangedEvents []domain.ReportStatusChangedEvent
	publishErr          error
}

func (m *mockEventPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.registeredEvents = append(m.registeredEvents, event)
	return nil
}

func (m *mockEventPublisher) PublishReportSubmitted(_ context.Context, event domain.ReportSubmittedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.submittedEvents = append(m.submittedEvents, event)
	return nil
}

func (m *mockEventPublisher) PublishReportStatusChanged(_ context.Context, event domain.ReportStatusChangedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.statusChangedEvents = append(m.statusChangedEvents, event)
	return nil
}

var errMockFailure = errors.New("mock failure")
