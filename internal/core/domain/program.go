package domain

// Program is a bounty program published by an organization.
// Bounty range invariant: 0 <= MinBounty <= MaxBounty.
type Program struct {
	ID             string
	OrganizationID string
	Title          string
	Description    string
	Policy         string
	Scope          string
	OutOfScope     string
	MinBounty      int
	MaxBounty      int
	Tags           []string
}
