package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contracts-service/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVersionConflict is returned when an appended version number is not
// strictly greater than every existing version of the contract.
var ErrVersionConflict = errors.New("version number not greater than latest version")

// ListFilter carries the listing query parameters. Date bounds are full
// timestamps; the handler widens date-only input to whole days.
type ListFilter struct {
	Status     *domain.ContractStatus
	Search     string
	TemplateID string
	FromDate   *time.Time
	ToDate     *time.Time
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction. Everything fn does commits or rolls back together.
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, contract *domain.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, ownerUserID string, filter ListFilter) ([]domain.Contract, int64, error)
	ListRecent(ctx context.Context, ownerUserID string) ([]domain.Contract, error)
	ListPending(ctx context.Context, ownerUserID string) ([]domain.Contract, error)
	ListByIDs(ctx context.Context, ownerUserID string, ids []uuid.UUID) ([]domain.Contract, error)
	StatusCounts(ctx context.Context, ownerUserID string) (map[domain.ContractStatus]int64, error)
	CountPendingSignatures(ctx context.Context, ownerUserID string) (int64, error)
	CountSignedThisMonth(ctx context.Context, ownerUserID string) (int64, error)

	AddVersion(ctx context.Context, version *domain.ContractVersion) error
	LatestVersion(ctx context.Context, contractID uuid.UUID) (*domain.ContractVersion, error)
	ListVersions(ctx context.Context, contractID uuid.UUID) ([]domain.ContractVersion, error)
	NextVersionNumber(ctx context.Context, contractID uuid.UUID) (int, error)

	AddParty(ctx context.Context, party *domain.ContractParty) error
	RemoveParty(ctx context.Context, contractID, partyID uuid.UUID) (int64, error)
	ListParties(ctx context.Context, contractID uuid.UUID) ([]domain.ContractParty, error)
	AllPartiesSigned(ctx context.Context, contractID uuid.UUID) (bool, error)
	MaxSigningOrder(ctx context.Context, contractID uuid.UUID) (int, error)

	LogActivity(ctx context.Context, entry *domain.ActivityLog) error
	ListActivity(ctx context.Context, contractID uuid.UUID) ([]domain.ActivityLog, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new contract repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RepositoryImpl{db: tx})
	})
}

func (r *RepositoryImpl) Create(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindByIDForUpdate locks the contract row for the rest of the enclosing
// transaction. Serializes version numbering and status checks per contract;
// contracts with different ids never contend.
func (r *RepositoryImpl) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *RepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *RepositoryImpl) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Contract{}, "id = ?", id).Error
}

var sortColumns = map[string]string{
	"createdAt": "contracts.created_at",
	"updatedAt": "contracts.updated_at",
	"title":     "contracts.title",
	"status":    "contracts.status",
}

func (r *RepositoryImpl) List(ctx context.Context, ownerUserID string, filter ListFilter) ([]domain.Contract, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("contracts.owner_user_id = ?", ownerUserID)

	if filter.Status != nil {
		query = query.Where("contracts.status = ?", *filter.Status)
	}
	if filter.TemplateID != "" {
		query = query.Where("contracts.template_id = ?", filter.TemplateID)
	}
	if filter.FromDate != nil {
		query = query.Where("contracts.created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("contracts.created_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins(`LEFT JOIN (
				SELECT cv.contract_id, cv.content
				FROM contract_versions cv
				JOIN (
					SELECT contract_id, MAX(version) AS max_version
					FROM contract_versions
					GROUP BY contract_id
				) latest ON latest.contract_id = cv.contract_id AND latest.max_version = cv.version
			) latest_content ON latest_content.contract_id = contracts.id`).
			Where("contracts.title ILIKE ? OR latest_content.content ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns["createdAt"]
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	var contracts []domain.Contract
	err := query.
		Order(fmt.Sprintf("%s %s", column, direction)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&contracts).Error

	return contracts, total, err
}

func (r *RepositoryImpl) ListRecent(ctx context.Context, ownerUserID string) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC").
		Limit(10).
		Find(&contracts).Error
	return contracts, err
}

const unsignedPartyExists = `EXISTS (
	SELECT 1 FROM contract_parties p
	WHERE p.contract_id = contracts.id AND p.signature_status <> 'SIGNED'
)`

func (r *RepositoryImpl) ListPending(ctx context.Context, ownerUserID string) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Where("status = ?", domain.StatusSigning).
		Where(unsignedPartyExists).
		Order("updated_at DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *RepositoryImpl) ListByIDs(ctx context.Context, ownerUserID string, ids []uuid.UUID) ([]domain.Contract, error) {
	var contracts []domain.Contract
	if len(ids) == 0 {
		return contracts, nil
	}
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Where("id IN ?", ids).
		Find(&contracts).Error
	return contracts, err
}

func (r *RepositoryImpl) StatusCounts(ctx context.Context, ownerUserID string) (map[domain.ContractStatus]int64, error) {
	var rows []struct {
		Status domain.ContractStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Select("status, COUNT(*) AS count").
		Where("owner_user_id = ?", ownerUserID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ContractStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *RepositoryImpl) CountPendingSignatures(ctx context.Context, ownerUserID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("owner_user_id = ?", ownerUserID).
		Where("status = ?", domain.StatusSigning).
		Where(unsignedPartyExists).
		Count(&count).Error
	return count, err
}

func (r *RepositoryImpl) CountSignedThisMonth(ctx context.Context, ownerUserID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("owner_user_id = ?", ownerUserID).
		Where("status = ?", domain.StatusSigned).
		Where("signed_at >= date_trunc('month', now())").
		Count(&count).Error
	return count, err
}

// AddVersion inserts an immutable snapshot. The number must be strictly
// greater than every existing version; callers compute it under the
// contract row lock, this check is the defensive backstop.
func (r *RepositoryImpl) AddVersion(ctx context.Context, version *domain.ContractVersion) error {
	current, err := r.maxVersionNumber(ctx, version.ContractID)
	if err != nil {
		return err
	}
	if version.Version <= current {
		return ErrVersionConflict
	}
	err = r.db.WithContext(ctx).Create(version).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrVersionConflict
	}
	return err
}

func (r *RepositoryImpl) LatestVersion(ctx context.Context, contractID uuid.UUID) (*domain.ContractVersion, error) {
	var version domain.ContractVersion
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("version DESC").
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // a DRAFT contract has no content yet
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *RepositoryImpl) ListVersions(ctx context.Context, contractID uuid.UUID) ([]domain.ContractVersion, error) {
	var versions []domain.ContractVersion
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}

// NextVersionNumber computes max(version)+1. Only meaningful inside a
// transaction holding the contract row lock, otherwise two writers can
// observe the same maximum.
func (r *RepositoryImpl) NextVersionNumber(ctx context.Context, contractID uuid.UUID) (int, error) {
	current, err := r.maxVersionNumber(ctx, contractID)
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (r *RepositoryImpl) maxVersionNumber(ctx context.Context, contractID uuid.UUID) (int, error) {
	var current int
	err := r.db.WithContext(ctx).
		Model(&domain.ContractVersion{}).
		Where("contract_id = ?", contractID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).Error
	return current, err
}

func (r *RepositoryImpl) AddParty(ctx context.Context, party *domain.ContractParty) error {
	return r.db.WithContext(ctx).Create(party).Error
}

func (r *RepositoryImpl) RemoveParty(ctx context.Context, contractID, partyID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("contract_id = ? AND id = ?", contractID, partyID).
		Delete(&domain.ContractParty{})
	return result.RowsAffected, result.Error
}

func (r *RepositoryImpl) ListParties(ctx context.Context, contractID uuid.UUID) ([]domain.ContractParty, error) {
	var parties []domain.ContractParty
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("signing_order ASC, created_at ASC").
		Find(&parties).Error
	return parties, err
}

// AllPartiesSigned is vacuously true for zero parties. Callers deciding
// signing completeness must check non-emptiness separately.
func (r *RepositoryImpl) AllPartiesSigned(ctx context.Context, contractID uuid.UUID) (bool, error) {
	var unsigned int64
	err := r.db.WithContext(ctx).
		Model(&domain.ContractParty{}).
		Where("contract_id = ?", contractID).
		Where("signature_status <> ?", domain.SignatureSigned).
		Count(&unsigned).Error
	return unsigned == 0, err
}

func (r *RepositoryImpl) MaxSigningOrder(ctx context.Context, contractID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&domain.ContractParty{}).
		Where("contract_id = ?", contractID).
		Select("COALESCE(MAX(signing_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *RepositoryImpl) LogActivity(ctx context.Context, entry *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *RepositoryImpl) ListActivity(ctx context.Context, contractID uuid.UUID) ([]domain.ActivityLog, error) {
	var logs []domain.ActivityLog
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}
