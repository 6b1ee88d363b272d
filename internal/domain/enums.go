package domain

import "fmt"

// ContractStatus is the contract lifecycle state.
type ContractStatus string

const (
	StatusDraft     ContractStatus = "DRAFT"
	StatusGenerated ContractStatus = "GENERATED"
	StatusSigning   ContractStatus = "SIGNING"
	StatusSigned    ContractStatus = "SIGNED"
	StatusCancelled ContractStatus = "CANCELLED"
	StatusExpired   ContractStatus = "EXPIRED"
)

func ParseContractStatus(s string) (ContractStatus, error) {
	switch ContractStatus(s) {
	case StatusDraft, StatusGenerated, StatusSigning, StatusSigned, StatusCancelled, StatusExpired:
		return ContractStatus(s), nil
	}
	return "", fmt.Errorf("unknown contract status %q", s)
}

// VersionSource tags who produced a content snapshot.
type VersionSource string

const (
	SourceAI   VersionSource = "AI"
	SourceUser VersionSource = "USER"
)

func ParseVersionSource(s string) (VersionSource, error) {
	switch VersionSource(s) {
	case SourceAI, SourceUser:
		return VersionSource(s), nil
	}
	return "", fmt.Errorf("unknown version source %q", s)
}

// PartyRole is the role a party plays in the signing workflow.
type PartyRole string

const (
	RoleHost    PartyRole = "HOST"
	RoleGuest   PartyRole = "GUEST"
	RoleWitness PartyRole = "WITNESS"
)

func ParsePartyRole(s string) (PartyRole, error) {
	switch PartyRole(s) {
	case RoleHost, RoleGuest, RoleWitness:
		return PartyRole(s), nil
	}
	return "", fmt.Errorf("unknown party role %q", s)
}

// SignatureStatus tracks a single party's progress.
type SignatureStatus string

const (
	SignaturePending SignatureStatus = "PENDING"
	SignatureInvited SignatureStatus = "INVITED"
	SignatureSigned  SignatureStatus = "SIGNED"
)

// ActivityAction classifies audit log entries.
type ActivityAction string

const (
	ActionCreated   ActivityAction = "CREATED"
	ActionUpdated   ActivityAction = "UPDATED"
	ActionGenerated ActivityAction = "GENERATED"
	ActionSigned    ActivityAction = "SIGNED"
	ActionSent      ActivityAction = "SENT"
	ActionCancelled ActivityAction = "CANCELLED"
)
