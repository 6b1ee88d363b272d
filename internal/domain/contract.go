package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Contract is the central document entity moving through statuses.
// Soft-deleted contracts are excluded from every normal query but keep
// their versions, parties and activity logs until a physical purge.
type Contract struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string            `gorm:"size:500;not null" json:"title"`
	ContractType string            `gorm:"size:100;not null" json:"contractType"`
	TemplateID   string            `gorm:"size:100;not null" json:"templateId"`
	OwnerUserID  string            `gorm:"size:100;not null;index" json:"ownerUserId"`
	Status       ContractStatus    `gorm:"size:20;not null;default:DRAFT" json:"status"`
	Metadata     datatypes.JSONMap `gorm:"not null;default:'{}'" json:"-"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	SignedAt     *time.Time        `json:"signedAt"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`

	Versions     []ContractVersion `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Parties      []ContractParty   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ActivityLogs []ActivityLog     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ContractVersion is an immutable full-content snapshot. Version numbers
// per contract are strictly increasing from 1; rows are never updated
// or deleted.
type ContractVersion struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ContractID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_contract_version,priority:1" json:"-"`
	Version    int           `gorm:"not null;uniqueIndex:idx_contract_version,priority:2" json:"version"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	Source     VersionSource `gorm:"size:10;not null" json:"source"`
	CreatedBy  string        `gorm:"size:100;not null" json:"createdBy"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// ContractParty is a participant required to sign a contract. SigningOrder
// is a display/sequencing hint, not a gating mechanism.
type ContractParty struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContractID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Role            PartyRole       `gorm:"size:10;not null" json:"role"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Email           string          `gorm:"size:255;not null" json:"email"`
	SignatureStatus SignatureStatus `gorm:"size:10;not null;default:PENDING" json:"signatureStatus"`
	SignedAt        *time.Time      `json:"signedAt"`
	SigningOrder    int             `gorm:"not null;default:1" json:"order"`
	CreatedAt       time.Time       `json:"-"`
}

// ActivityLog is an append-only audit row, written in the same transaction
// as the mutation it records.
type ActivityLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContractID uuid.UUID         `gorm:"type:uuid;not null;index" json:"-"`
	Action     ActivityAction    `gorm:"size:20;not null" json:"action"`
	UserID     string            `gorm:"size:100;not null" json:"userId"`
	UserName   string            `gorm:"size:255;not null" json:"userName"`
	Details    datatypes.JSONMap `gorm:"not null;default:'{}'" json:"details"`
	Timestamp  time.Time         `gorm:"autoCreateTime" json:"timestamp"`
}
