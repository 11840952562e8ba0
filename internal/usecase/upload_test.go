package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

type mockUploadSink struct {
	uploads   int
	folder    string
	publicID  string
	returnURL string
	err       error
}

func (m *mockUploadSink) Upload(_ context.Context, _ []byte, _ string, folder, publicID string) (string, error) {
	m.uploads++
	m.folder = folder
	m.publicID = publicID
	if m.err != nil {
		return "", m.err
	}
	return m.returnURL, nil
}

func newUploadFixture(t *testing.T) (*UploadService, *mockUploadSink, *mockAccountRepository, *mockOrganizationRepository) {
	t.Helper()

	sink := &mockUploadSink{returnURL: "https://cdn.example.com/file.png"}
	accounts := newMockAccountRepository()
	organizations := newMockOrganizationRepository()

	service, err := NewUploadService(sink, accounts, organizations)
	if err != nil {
		t.Fatalf("NewUploadService: %v", err)
	}
	return service, sink, accounts, organizations
}

func TestUploadAvatar(t *testing.T) {
	service, sink, accounts, _ := newUploadFixture(t)
	accounts.put(domain.Account{ID: hackerPrincipal.AccountID})

	url, err := service.UploadAvatar(context.Background(), hackerPrincipal, []byte("png"), "image/png", "me.png")
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if url != sink.returnURL {
		t.Errorf("url = %q", url)
	}
	if sink.folder != "avatars" {
		t.Errorf("folder = %q, want avatars", sink.folder)
	}
	if !strings.HasPrefix(sink.publicID, "me-") {
		t.Errorf("public id = %q, want me-<suffix>", sink.publicID)
	}
	if accounts.accounts[hackerPrincipal.AccountID].AvatarURL != url {
		t.Error("avatar url not persisted")
	}
}

func TestUploadLogoRequiresOrganization(t *testing.T) {
	service, _, _, organizations := newUploadFixture(t)

	if _, err := service.UploadLogo(context.Background(), hackerPrincipal, []byte("x"), "image/png", "logo.png"); !errors.Is(err, ErrForbidden) {
		t.Errorf("hacker role: err = %v, want ErrForbidden", err)
	}

	if _, err := service.UploadLogo(context.Background(), orgPrincipal, []byte("x"), "image/png", "logo.png"); !errors.Is(err, ErrOrganizationNotFound) {
		t.Errorf("no organization: err = %v, want ErrOrganizationNotFound", err)
	}

	organizations.put(domain.Organization{ID: "org-1", OwnerID: orgPrincipal.AccountID})
	url, err := service.UploadLogo(context.Background(), orgPrincipal, []byte("x"), "image/png", "logo.png")
	if err != nil {
		t.Fatalf("UploadLogo: %v", err)
	}
	if organizations.orgsByID["org-1"].LogoURL != url {
		t.Error("logo url not persisted")
	}
}

func TestUploadAttachment(t *testing.T) {
	service, sink, _, _ := newUploadFixture(t)

	url, err := service.UploadAttachment(context.Background(), hackerPrincipal, []byte("poc"), "text/plain", "poc.txt")
	if err != nil {
		t.Fatalf("UploadAttachment: %v", err)
	}
	if url == "" {
		t.Error("empty url")
	}
	if sink.folder != "attachments" {
		t.Errorf("folder = %q, want attachments", sink.folder)
	}
}

func TestUploadSinkFailure(t *testing.T) {
	service, sink, _, _ := newUploadFixture(t)
	sink.err = errMockFailure

	_, err := service.UploadAttachment(context.Background(), hackerPrincipal, []byte("poc"), "text/plain", "poc.txt")
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}
}
