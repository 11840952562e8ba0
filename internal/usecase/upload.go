package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	uuid "github.com/google/uuid"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

// ErrUploadFailed indicates the upload sink rejected or failed the transfer.
var ErrUploadFailed = errors.New("upload failed")

// Upload folders by purpose.
const (
	folderAvatars     = "avatars"
	folderLogos       = "logos"
	folderAttachments = "attachments"
)

// UploadService stores files through the configured sink and records the
// resulting URLs on the owning entity.
type UploadService struct {
	sink          port.UploadSink
	accounts      port.AccountRepository
	organizations port.OrganizationRepository
}

// NewUploadService constructs an UploadService instance.
func NewUploadService(
	sink port.UploadSink,
	accounts port.AccountRepository,
	organizations port.OrganizationRepository,
) (*UploadService, error) {
	if sink == nil {
		return nil, errors.New("upload sink is required")
	}
	if accounts == nil {
		return nil, errors.New("account repository is required")
	}
	if organizations == nil {
		return nil, errors.New("organization repository is required")
	}
	return &UploadService{sink: sink, accounts: accounts, organizations: organizations}, nil
}

func publicID(fileName string) string {
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	if base == "" || base == "." {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

// UploadAvatar stores a new avatar and binds it to the principal's account.
func (s *UploadService) UploadAvatar(ctx context.Context, principal *domain.Principal, data []byte, contentType, fileName string) (string, error) {
	if principal == nil {
		return "", ErrUnauthorized
	}

	url, err := s.sink.Upload(ctx, data, contentType, folderAvatars, publicID(fileName))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, err.Error())
	}

	if err := s.accounts.UpdateAvatarURL(ctx, principal.AccountID, url); err != nil {
		return "", fmt.Errorf("save avatar url: %w", err)
	}

	return url, nil
}

// UploadLogo stores a new logo and binds it to the principal's organization.
func (s *UploadService) UploadLogo(ctx context.Context, principal *domain.Principal, data []byte, contentType, fileName string) (string, error) {
	if principal == nil {
		return "", ErrUnauthorized
	}
	if principal.Role != domain.RoleOrganization {
		return "", ErrForbidden
	}

	org, err := s.organizations.GetByOwnerID(ctx, principal.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrOrganizationNotFound
		}
		return "", fmt.Errorf("lookup organization: %w", err)
	}

	url, err := s.sink.Upload(ctx, data, contentType, folderLogos, publicID(fileName))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, err.Error())
	}

	if err := s.organizations.UpdateLogoURL(ctx, org.ID, url); err != nil {
		return "", fmt.Errorf("save logo url: %w", err)
	}

	return url, nil
}

// UploadAttachment stores a report attachment and returns its URL. The URL is
// bound to a report later, at submission time.
func (s *UploadService) UploadAttachment(ctx context.Context, principal *domain.Principal, data []byte, contentType, fileName string) (string, error) {
	if principal == nil {
		return "", ErrUnauthorized
	}

	url, err := s.sink.Upload(ctx, data, contentType, folderAttachments, publicID(fileName))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, err.Error())
	}

	return url, nil
}
