package contract

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"contracts-service/internal/domain"
	"contracts-service/internal/errors"
	"contracts-service/internal/worker"
	"contracts-service/redis"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	ListContracts(ctx context.Context, user domain.UserContext, filter ListFilter) (*ContractListResponse, error)
	CreateContract(ctx context.Context, user domain.UserContext, title, contractType, templateID string) (*domain.Contract, error)
	GetContractDetail(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*ContractDetailResponse, error)
	UpdateContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID, title *string) (*domain.Contract, error)
	DeleteContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID) error
	DuplicateContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*domain.Contract, error)
	UpdateContent(ctx context.Context, user domain.UserContext, contractID uuid.UUID, content string, source domain.VersionSource) error
	ListVersions(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ContractVersion, error)
	UpdateStatus(ctx context.Context, user domain.UserContext, contractID uuid.UUID, target domain.ContractStatus, reason string) error
	GetTransitions(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*TransitionsResponse, error)
	ListActivity(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ActivityLog, error)
	ListParties(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ContractParty, error)
	AddParty(ctx context.Context, user domain.UserContext, contractID uuid.UUID, input AddPartyInput) (*domain.ContractParty, error)
	RemoveParty(ctx context.Context, user domain.UserContext, contractID, partyID uuid.UUID) error
	ListRecentContracts(ctx context.Context, user domain.UserContext) ([]domain.Contract, error)
	ListPendingContracts(ctx context.Context, user domain.UserContext) ([]domain.Contract, error)
	Stats(ctx context.Context, user domain.UserContext) (*StatsResponse, error)
	BulkDownload(ctx context.Context, user domain.UserContext, contractIDs []uuid.UUID) ([]byte, error)
	PublicView(ctx context.Context, contractID uuid.UUID, token string) (*PublicViewResponse, error)
}

type DefaultService struct {
	repository Repository
	cache      *redis.Cache
	pool       *worker.WorkerPool
	cacheTTL   time.Duration
}

func NewService(repository Repository, cache *redis.Cache, pool *worker.WorkerPool, cacheTTL time.Duration) Service {
	return &DefaultService{
		repository: repository,
		cache:      cache,
		pool:       pool,
		cacheTTL:   cacheTTL,
	}
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
}

type ContractListResponse struct {
	Data       []domain.Contract `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// Signature payloads belong to the signature service; the detail response
// carries an empty list until that integration lands.
type Signature struct {
	ID           string           `json:"id"`
	PartyID      string           `json:"partyId"`
	PartyName    string           `json:"partyName"`
	Role         domain.PartyRole `json:"role"`
	SignedAt     time.Time        `json:"signedAt"`
	IPAddress    string           `json:"ipAddress"`
	DocumentHash string           `json:"documentHash"`
}

type ContractDetailResponse struct {
	domain.Contract
	Content      string                 `json:"content"`
	Parties      []domain.ContractParty `json:"parties"`
	Signatures   []Signature            `json:"signatures"`
	DocumentURL  *string                `json:"documentUrl"`
	DocumentHash *string                `json:"documentHash"`
}

type TransitionsResponse struct {
	CurrentStatus      domain.ContractStatus   `json:"currentStatus"`
	AllowedTransitions []domain.ContractStatus `json:"allowedTransitions"`
}

type StatsResponse struct {
	Total             int64                            `json:"total"`
	ByStatus          map[domain.ContractStatus]int64  `json:"byStatus"`
	PendingSignatures int64                            `json:"pendingSignatures"`
	SignedThisMonth   int64                            `json:"signedThisMonth"`
}

type PublicViewResponse struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Content     string               `json:"content"`
	Party       domain.ContractParty `json:"party"`
	DocumentURL *string              `json:"documentUrl"`
}

type AddPartyInput struct {
	Role  domain.PartyRole
	Name  string
	Email string
	Order *int
}

// loadOwned loads a contract and enforces the ownership policy: NotFound
// for absent or soft-deleted contracts, Forbidden for other owners.
func loadOwned(ctx context.Context, repo Repository, user domain.UserContext, contractID uuid.UUID, lock bool) (*domain.Contract, error) {
	var contract *domain.Contract
	var err error
	if lock {
		contract, err = repo.FindByIDForUpdate(ctx, contractID)
	} else {
		contract, err = repo.FindByID(ctx, contractID)
	}
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Contract not found.", err)
		}
		return nil, err
	}
	if contract.OwnerUserID != user.UserID {
		return nil, errors.Forbidden("You do not have access to this contract.", nil)
	}
	return contract, nil
}

func ownerVersionKey(userID string) string {
	return fmt.Sprintf("user:%s:contracts:version", userID)
}

// listCacheKey composes the cache key from the filter's scalar values.
// Pointer fields are dereferenced first: formatting the pointers themselves
// would embed addresses, making equal filters miss and, after address
// reuse, letting one status's page surface under another's key.
func listCacheKey(userID string, version int64, filter ListFilter) string {
	status := ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	from := ""
	if filter.FromDate != nil {
		from = filter.FromDate.UTC().Format(time.RFC3339Nano)
	}
	to := ""
	if filter.ToDate != nil {
		to = filter.ToDate.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("contracts:u:%s:v:%d:st:%s:q:%s:tpl:%s:from:%s:to:%s:sort:%s:%s:p:%d:ps:%d",
		userID, version, status, filter.Search, filter.TemplateID, from, to,
		filter.SortBy, filter.SortOrder, filter.Page, filter.PageSize)
}

// invalidateCache bumps the owner's version counter so every cached list
// and stats read for that owner misses from now on.
func (s *DefaultService) invalidateCache(ctx context.Context, userID string) {
	s.cache.IncrementVersion(ctx, ownerVersionKey(userID))
}

func (s *DefaultService) cacheSet(key string, value interface{}) {
	if s.pool != nil {
		s.pool.Submit(func(ctx context.Context) error {
			return s.cache.Set(ctx, key, value, s.cacheTTL)
		})
		return
	}
	_ = s.cache.Set(context.Background(), key, value, s.cacheTTL)
}

func (s *DefaultService) ListContracts(ctx context.Context, user domain.UserContext, filter ListFilter) (*ContractListResponse, error) {
	v := s.cache.GetVersion(ctx, ownerVersionKey(user.UserID))
	cacheKey := listCacheKey(user.UserID, v, filter)

	var result ContractListResponse
	if found, _ := s.cache.Get(ctx, cacheKey, &result); found {
		return &result, nil
	}

	contracts, total, err := s.repository.List(ctx, user.UserID, filter)
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}

	result = ContractListResponse{
		Data: contracts,
		Pagination: Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalPages: totalPages,
			TotalItems: total,
		},
	}
	s.cacheSet(cacheKey, result)

	return &result, nil
}

func (s *DefaultService) CreateContract(ctx context.Context, user domain.UserContext, title, contractType, templateID string) (*domain.Contract, error) {
	contract := &domain.Contract{
		Title:        title,
		ContractType: contractType,
		TemplateID:   templateID,
		OwnerUserID:  user.UserID,
		Status:       domain.StatusDraft,
		Metadata:     datatypes.JSONMap{},
	}

	err := s.repository.Transaction(ctx, func(repo Repository) error {
		if err := repo.Create(ctx, contract); err != nil {
			return err
		}
		return repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: contract.ID,
			Action:     domain.ActionCreated,
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details:    datatypes.JSONMap{},
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, user.UserID)
	return contract, nil
}

func (s *DefaultService) GetContractDetail(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*ContractDetailResponse, error) {
	contract, err := loadOwned(ctx, s.repository, user, contractID, false)
	if err != nil {
		return nil, err
	}

	latest, err := s.repository.LatestVersion(ctx, contractID)
	if err != nil {
		return nil, err
	}
	parties, err := s.repository.ListParties(ctx, contractID)
	if err != nil {
		return nil, err
	}

	content := ""
	if latest != nil {
		content = latest.Content
	}
	if parties == nil {
		parties = []domain.ContractParty{}
	}

	return &ContractDetailResponse{
		Contract:   *contract,
		Content:    content,
		Parties:    parties,
		Signatures: []Signature{},
	}, nil
}

func (s *DefaultService) UpdateContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID, title *string) (*domain.Contract, error) {
	var updated *domain.Contract

	err := s.repository.Transaction(ctx, func(repo Repository) error {
		contract, err := loadOwned(ctx, repo, user, contractID, true)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		changed := datatypes.JSONMap{}
		if title != nil {
			fields["title"] = *title
			changed["title"] = *title
		}

		if len(fields) == 0 {
			updated = contract
			return nil
		}

		if err := repo.UpdateFields(ctx, contractID, fields); err != nil {
			return err
		}
		if err := repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: contractID,
			Action:     domain.ActionUpdated,
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details:    datatypes.JSONMap{"changedFields": changed},
		}); err != nil {
			return err
		}

		updated, err = repo.FindByID(ctx, contractID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, user.UserID)
	return updated, nil
}

func (s *DefaultService) DeleteContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID) error {
	err := s.repository.Transaction(ctx, func(repo Repository) error {
		contract, err := loadOwned(ctx, repo, user, contractID, true)
		if err != nil {
			return err
		}
		if contract.Status == domain.StatusSigned {
			return errors.Conflict("A signed contract cannot be deleted.", nil)
		}

		if err := repo.SoftDelete(ctx, contractID); err != nil {
			return err
		}
		return repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: contractID,
			Action:     domain.ActionUpdated,
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details:    datatypes.JSONMap{"softDelete": true},
		})
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, user.UserID)
	return nil
}

// DuplicateContract copies title/type/template/metadata into a fresh DRAFT
// contract. The source's current content becomes version 1 authored by the
// requester; parties are copied with their signature state reset.
func (s *DefaultService) DuplicateContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*domain.Contract, error) {
	var duplicate *domain.Contract

	err := s.repository.Transaction(ctx, func(repo Repository) error {
		source, err := loadOwned(ctx, repo, user, contractID, false)
		if err != nil {
			return err
		}

		metadata := datatypes.JSONMap{}
		for k, v := range source.Metadata {
			metadata[k] = v
		}
		duplicate = &domain.Contract{
			Title:        source.Title,
			ContractType: source.ContractType,
			TemplateID:   source.TemplateID,
			OwnerUserID:  user.UserID,
			Status:       domain.StatusDraft,
			Metadata:     metadata,
		}
		if err := repo.Create(ctx, duplicate); err != nil {
			return err
		}

		latest, err := repo.LatestVersion(ctx, contractID)
		if err != nil {
			return err
		}
		if latest != nil {
			version := &domain.ContractVersion{
				ContractID: duplicate.ID,
				Version:    1,
				Content:    latest.Content,
				Source:     domain.SourceUser,
				CreatedBy:  user.UserID,
			}
			if err := repo.AddVersion(ctx, version); err != nil {
				return err
			}
		}

		parties, err := repo.ListParties(ctx, contractID)
		if err != nil {
			return err
		}
		for _, party := range parties {
			copied := &domain.ContractParty{
				ContractID:      duplicate.ID,
				Role:            party.Role,
				Name:            party.Name,
				Email:           party.Email,
				SignatureStatus: domain.SignaturePending,
				SigningOrder:    party.SigningOrder,
			}
			if err := repo.AddParty(ctx, copied); err != nil {
				return err
			}
		}

		return repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: duplicate.ID,
			Action:     domain.ActionCreated,
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details:    datatypes.JSONMap{"duplicatedFrom": contractID.String()},
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, user.UserID)
	return duplicate, nil
}

func (s *DefaultService) UpdateContent(ctx context.Context, user domain.UserContext, contractID uuid.UUID, content string, source domain.VersionSource) error {
	err := s.repository.Transaction(ctx, func(repo Repository) error {
		// The row lock serializes concurrent content updates so both
		// cannot compute the same next version number.
		if _, err := loadOwned(ctx, repo, user, contractID, true); err != nil {
			return err
		}

		next, err := repo.NextVersionNumber(ctx, contractID)
		if err != nil {
			return err
		}
		version := &domain.ContractVersion{
			ContractID: contractID,
			Version:    next,
			Content:    content,
			Source:     source,
			CreatedBy:  user.UserID,
		}
		if err := repo.AddVersion(ctx, version); err != nil {
			if defError.Is(err, ErrVersionConflict) {
				return errors.Conflict("Version number already used for this contract.", err)
			}
			return err
		}

		action := domain.ActionUpdated
		if source == domain.SourceAI {
			action = domain.ActionGenerated
		}
		return repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: contractID,
			Action:     action,
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details:    datatypes.JSONMap{"version": next, "source": string(source)},
		})
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, user.UserID)
	return nil
}

func (s *DefaultService) ListVersions(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ContractVersion, error) {
	if _, err := loadOwned(ctx, s.repository, user, contractID, false); err != nil {
		return nil, err
	}
	versions, err := s.repository.ListVersions(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []domain.ContractVersion{}
	}
	return versions, nil
}

func (s *DefaultService) UpdateStatus(ctx context.Context, user domain.UserContext, contractID uuid.UUID, target domain.ContractStatus, reason string) error {
	err := s.repository.Transaction(ctx, func(repo Repository) error {
		// Locked load: two concurrent transitions cannot both observe the
		// pre-transition status.
		contract, err := loadOwned(ctx, repo, user, contractID, true)
		if err != nil {
			return err
		}

		if err := CheckTransition(contract.Status, target, reason); err != nil {
			return err
		}

		if target == domain.StatusSigned {
			parties, err := repo.ListParties(ctx, contractID)
			if err != nil {
				return err
			}
			if len(parties) == 0 {
				return errors.PreconditionFailed("No signing parties registered.", nil)
			}
			allSigned, err := repo.AllPartiesSigned(ctx, contractID)
			if err != nil {
				return err
			}
			if !allSigned {
				return errors.PreconditionFailed("All parties must be SIGNED.", nil)
			}
		}

		fields := map[string]interface{}{"status": target}
		if target == domain.StatusSigned {
			fields["signed_at"] = time.Now().UTC()
		} else {
			fields["signed_at"] = nil
		}
		if err := repo.UpdateFields(ctx, contractID, fields); err != nil {
			return err
		}

		return repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: contractID,
			Action:     TransitionAction(target),
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details: datatypes.JSONMap{
				"previousStatus": string(contract.Status),
				"newStatus":      string(target),
				"reason":         reason,
			},
		})
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, user.UserID)
	return nil
}

func (s *DefaultService) GetTransitions(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*TransitionsResponse, error) {
	contract, err := loadOwned(ctx, s.repository, user, contractID, false)
	if err != nil {
		return nil, err
	}
	return &TransitionsResponse{
		CurrentStatus:      contract.Status,
		AllowedTransitions: AllowedTransitions(contract.Status),
	}, nil
}

func (s *DefaultService) ListActivity(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ActivityLog, error) {
	if _, err := loadOwned(ctx, s.repository, user, contractID, false); err != nil {
		return nil, err
	}
	logs, err := s.repository.ListActivity(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.ActivityLog{}
	}
	return logs, nil
}

func (s *DefaultService) ListParties(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ContractParty, error) {
	if _, err := loadOwned(ctx, s.repository, user, contractID, false); err != nil {
		return nil, err
	}
	parties, err := s.repository.ListParties(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if parties == nil {
		parties = []domain.ContractParty{}
	}
	return parties, nil
}

func (s *DefaultService) AddParty(ctx context.Context, user domain.UserContext, contractID uuid.UUID, input AddPartyInput) (*domain.ContractParty, error) {
	var party *domain.ContractParty

	err := s.repository.Transaction(ctx, func(repo Repository) error {
		contract, err := loadOwned(ctx, repo, user, contractID, true)
		if err != nil {
			return err
		}
		if contract.Status == domain.StatusSigned {
			return errors.Conflict("Parties cannot be added to a signed contract.", nil)
		}

		order := 0
		if input.Order != nil {
			order = *input.Order
		} else {
			max, err := repo.MaxSigningOrder(ctx, contractID)
			if err != nil {
				return err
			}
			order = max + 1
		}

		party = &domain.ContractParty{
			ContractID:      contractID,
			Role:            input.Role,
			Name:            input.Name,
			Email:           input.Email,
			SignatureStatus: domain.SignaturePending,
			SigningOrder:    order,
		}
		if err := repo.AddParty(ctx, party); err != nil {
			return err
		}

		return repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: contractID,
			Action:     domain.ActionUpdated,
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details:    datatypes.JSONMap{"partyAdded": input.Email},
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, user.UserID)
	return party, nil
}

func (s *DefaultService) RemoveParty(ctx context.Context, user domain.UserContext, contractID, partyID uuid.UUID) error {
	err := s.repository.Transaction(ctx, func(repo Repository) error {
		contract, err := loadOwned(ctx, repo, user, contractID, true)
		if err != nil {
			return err
		}
		if contract.Status == domain.StatusSigned {
			return errors.Conflict("Parties cannot be removed from a signed contract.", nil)
		}

		deleted, err := repo.RemoveParty(ctx, contractID, partyID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return errors.NotFound("Party not found.", nil)
		}

		return repo.LogActivity(ctx, &domain.ActivityLog{
			ContractID: contractID,
			Action:     domain.ActionUpdated,
			UserID:     user.UserID,
			UserName:   user.UserName(),
			Details:    datatypes.JSONMap{"partyRemoved": partyID.String()},
		})
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, user.UserID)
	return nil
}

func (s *DefaultService) ListRecentContracts(ctx context.Context, user domain.UserContext) ([]domain.Contract, error) {
	contracts, err := s.repository.ListRecent(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	return contracts, nil
}

func (s *DefaultService) ListPendingContracts(ctx context.Context, user domain.UserContext) ([]domain.Contract, error) {
	contracts, err := s.repository.ListPending(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	return contracts, nil
}

func (s *DefaultService) Stats(ctx context.Context, user domain.UserContext) (*StatsResponse, error) {
	v := s.cache.GetVersion(ctx, ownerVersionKey(user.UserID))
	cacheKey := fmt.Sprintf("contracts:stats:u:%s:v:%d", user.UserID, v)

	var result StatsResponse
	if found, _ := s.cache.Get(ctx, cacheKey, &result); found {
		return &result, nil
	}

	counts, err := s.repository.StatusCounts(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, count := range counts {
		total += count
	}

	pending, err := s.repository.CountPendingSignatures(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	signedThisMonth, err := s.repository.CountSignedThisMonth(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	result = StatsResponse{
		Total:             total,
		ByStatus:          counts,
		PendingSignatures: pending,
		SignedThisMonth:   signedThisMonth,
	}
	s.cacheSet(cacheKey, result)

	return &result, nil
}

func (s *DefaultService) BulkDownload(ctx context.Context, user domain.UserContext, contractIDs []uuid.UUID) ([]byte, error) {
	unique := make([]uuid.UUID, 0, len(contractIDs))
	seen := make(map[uuid.UUID]bool, len(contractIDs))
	for _, id := range contractIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	contracts, err := s.repository.ListByIDs(ctx, user.UserID, unique)
	if err != nil {
		return nil, err
	}
	if len(contracts) != len(unique) {
		return nil, errors.NotFound("One or more contracts were not found.", nil)
	}

	entries := make([]ArchiveEntry, 0, len(contracts))
	for _, contract := range contracts {
		latest, err := s.repository.LatestVersion(ctx, contract.ID)
		if err != nil {
			return nil, err
		}
		content := ""
		if latest != nil {
			content = latest.Content
		}
		entries = append(entries, ArchiveEntry{ContractID: contract.ID.String(), Content: content})
	}

	return BuildArchive(entries)
}

// PublicView skips the ownership check: the caller holds a signing token
// whose party binding is validated by the signature service. The selected
// party is the first unsigned one in signing order, or the first party
// when everyone has signed.
func (s *DefaultService) PublicView(ctx context.Context, contractID uuid.UUID, token string) (*PublicViewResponse, error) {
	contract, err := s.repository.FindByID(ctx, contractID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Contract not found.", err)
		}
		return nil, err
	}

	latest, err := s.repository.LatestVersion(ctx, contractID)
	if err != nil {
		return nil, err
	}
	parties, err := s.repository.ListParties(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if len(parties) == 0 {
		return nil, errors.NotFound("No parties registered for this contract.", nil)
	}

	selected := parties[0]
	for _, party := range parties {
		if party.SignatureStatus != domain.SignatureSigned {
			selected = party
			break
		}
	}

	content := ""
	if latest != nil {
		content = latest.Content
	}

	return &PublicViewResponse{
		ID:      contract.ID,
		Title:   contract.Title,
		Content: content,
		Party:   selected,
	}, nil
}
