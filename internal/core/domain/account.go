package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role enumerates the account roles recognized by the platform.
type Role string

const (
	RoleHacker       Role = "hacker"
	RoleOrganization Role = "organization"
)

// ParseRole resolves a client-supplied role string against the closed role set.
// Matching is case-insensitive; unrecognized values are rejected outright.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(RoleHacker):
		return RoleHacker, nil
	case string(RoleOrganization):
		return RoleOrganization, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// AccountStatus enumerates possible account states.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// Account mirrors the persisted representation in the accounts table.
// Email and username are globally unique; the role never changes after creation.
type Account struct {
	ID               string
	Email            string
	Username         string
	PasswordHash     string
	Role             Role
	Status           AccountStatus
	DisplayName      string
	Bio              string
	AvatarURL        string
	ReputationPoints int
	CreatedAt        time.Time
}

// Organization is owned by exactly one account with role organization.
type Organization struct {
	ID         string
	OwnerID    string
	Name       string
	WebsiteURL string
	LogoURL    string
}
