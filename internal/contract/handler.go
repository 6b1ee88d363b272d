package contract

import (
	"net/http"
	"time"

	"contracts-service/internal/domain"
	"contracts-service/internal/errors"
	"contracts-service/internal/middleware"
	"contracts-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.Error(errors.Validation("Invalid contract id.", err))
		return uuid.Nil, false
	}
	return id, true
}

type CreateContractRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=500"`
	TemplateID   string `json:"templateId" binding:"required,max=100"`
	ContractType string `json:"contractType" binding:"required,max=100"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateContractRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid request body.", err))
		return
	}

	user := middleware.CurrentUser(c)
	contract, err := h.service.CreateContract(c.Request.Context(), user, form.Title, form.ContractType, form.TemplateID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, contract)
}

// List handles filtering, sorting and pagination. Date-only bounds are
// widened to full-day timestamp ranges, inclusive on both ends.
func (h *Handler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	filter := ListFilter{
		Search:     c.Query("search"),
		TemplateID: c.Query("templateId"),
		SortBy:     c.DefaultQuery("sortBy", "createdAt"),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
	}
	filter.Page, filter.PageSize = utils.GetPaginationParams(c)

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseContractStatus(raw)
		if err != nil {
			c.Error(errors.Validation("Invalid status filter.", err))
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("fromDate"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.Error(errors.Validation("Invalid fromDate, expected YYYY-MM-DD.", err))
			return
		}
		filter.FromDate = &day
	}
	if raw := c.Query("toDate"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.Error(errors.Validation("Invalid toDate, expected YYYY-MM-DD.", err))
			return
		}
		endOfDay := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.ToDate = &endOfDay
	}

	result, err := h.service.ListContracts(c.Request.Context(), user, filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Stats(c *gin.Context) {
	user := middleware.CurrentUser(c)

	stats, err := h.service.Stats(c.Request.Context(), user)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) Recent(c *gin.Context) {
	user := middleware.CurrentUser(c)

	contracts, err := h.service.ListRecentContracts(c.Request.Context(), user)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) Pending(c *gin.Context) {
	user := middleware.CurrentUser(c)

	contracts, err := h.service.ListPendingContracts(c.Request.Context(), user)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) Show(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	detail, err := h.service.GetContractDetail(c.Request.Context(), user, contractID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

type UpdateContractRequest struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=500"`
}

func (h *Handler) Update(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form UpdateContractRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid request body.", err))
		return
	}

	user := middleware.CurrentUser(c)
	contract, err := h.service.UpdateContract(c.Request.Context(), user, contractID, form.Title)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

func (h *Handler) Delete(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	if err := h.service.DeleteContract(c.Request.Context(), user, contractID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Duplicate(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	contract, err := h.service.DuplicateContract(c.Request.Context(), user, contractID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, contract)
}

type UpdateContentRequest struct {
	Content string `json:"content" binding:"required"`
	Source  string `json:"source" binding:"required,oneof=AI USER"`
}

func (h *Handler) UpdateContent(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form UpdateContentRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid request body.", err))
		return
	}

	user := middleware.CurrentUser(c)
	err := h.service.UpdateContent(c.Request.Context(), user, contractID, form.Content, domain.VersionSource(form.Source))
	if err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) ListVersions(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	versions, err := h.service.ListVersions(c.Request.Context(), user, contractID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form UpdateStatusRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid request body.", err))
		return
	}
	target, err := domain.ParseContractStatus(form.Status)
	if err != nil {
		c.Error(errors.Validation("Invalid status.", err))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.service.UpdateStatus(c.Request.Context(), user, contractID, target, form.Reason); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) Transitions(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	transitions, err := h.service.GetTransitions(c.Request.Context(), user, contractID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, transitions)
}

func (h *Handler) History(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	logs, err := h.service.ListActivity(c.Request.Context(), user, contractID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *Handler) ListParties(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)

	parties, err := h.service.ListParties(c.Request.Context(), user, contractID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, parties)
}

type AddPartyRequest struct {
	Role  string `json:"role" binding:"required,oneof=HOST GUEST WITNESS"`
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email"`
	Order *int   `json:"order" binding:"omitempty,min=1"`
}

func (h *Handler) AddParty(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var form AddPartyRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("Invalid request body.", err))
		return
	}

	user := middleware.CurrentUser(c)
	party, err := h.service.AddParty(c.Request.Context(), user, contractID, AddPartyInput{
		Role:  domain.PartyRole(form.Role),
		Name:  form.Name,
		Email: form.Email,
		Order: form.Order,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, party)
}

func (h *Handler) RemoveParty(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	partyID, err := uuid.Parse(c.Param("partyId"))
	if err != nil {
		c.Error(errors.Validation("Invalid party id.", err))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.service.RemoveParty(c.Request.Context(), user, contractID, partyID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

type BulkDownloadRequest struct {
	ContractIDs []string `json:"contractIds" binding:"required,min=1"`
}

func (h *Handler) BulkDownload(c *gin.Context) {
	var form BulkDownloadRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.Validation("contractIds is required.", err))
		return
	}

	ids := make([]uuid.UUID, 0, len(form.ContractIDs))
	for _, raw := range form.ContractIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.Error(errors.Validation("Invalid contract id.", err))
			return
		}
		ids = append(ids, id)
	}

	user := middleware.CurrentUser(c)
	archive, err := h.service.BulkDownload(c.Request.Context(), user, ids)
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "application/zip", archive)
}

func (h *Handler) PublicView(c *gin.Context) {
	contractID, ok := parseID(c, "id")
	if !ok {
		return
	}
	token := c.Query("token")
	if token == "" {
		c.Error(errors.Validation("token is required.", nil))
		return
	}

	view, err := h.service.PublicView(c.Request.Context(), contractID, token)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}
