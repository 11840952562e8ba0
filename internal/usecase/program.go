package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

// ProgramDetail is a program joined with its publishing organization.
type ProgramDetail struct {
	Program      domain.Program
	Organization domain.Organization
}

// ProgramService exposes the public program catalog.
type ProgramService struct {
	programs      port.ProgramRepository
	organizations port.OrganizationRepository
}

// NewProgramService constructs a ProgramService instance.
func NewProgramService(programs port.ProgramRepository, organizations port.OrganizationRepository) (*ProgramService, error) {
	if programs == nil {
		return nil, errors.New("program repository is required")
	}
	if organizations == nil {
		return nil, errors.New("organization repository is required")
	}
	return &ProgramService{programs: programs, organizations: organizations}, nil
}

// ListPrograms returns the full program catalog.
func (s *ProgramService) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// GetProgramDetail returns a single program with its organization.
func (s *ProgramService) GetProgramDetail(ctx context.Context, programID string) (*ProgramDetail, error) {
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("load program: %w", err)
	}

	org, err := s.organizations.GetByID(ctx, program.OrganizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("load organization: %w", err)
	}

	return &ProgramDetail{Program: *program, Organization: *org}, nil
}
