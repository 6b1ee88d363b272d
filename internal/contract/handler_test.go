package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contracts-service/internal/domain"
	apiError "contracts-service/internal/errors"
	"contracts-service/internal/logger"
	"contracts-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListContracts(ctx context.Context, user domain.UserContext, filter ListFilter) (*ContractListResponse, error) {
	args := m.Called(ctx, user, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ContractListResponse), args.Error(1)
}

func (m *MockService) CreateContract(ctx context.Context, user domain.UserContext, title, contractType, templateID string) (*domain.Contract, error) {
	args := m.Called(ctx, user, title, contractType, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockService) GetContractDetail(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*ContractDetailResponse, error) {
	args := m.Called(ctx, user, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ContractDetailResponse), args.Error(1)
}

func (m *MockService) UpdateContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID, title *string) (*domain.Contract, error) {
	args := m.Called(ctx, user, contractID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockService) DeleteContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID) error {
	args := m.Called(ctx, user, contractID)
	return args.Error(0)
}

func (m *MockService) DuplicateContract(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*domain.Contract, error) {
	args := m.Called(ctx, user, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockService) UpdateContent(ctx context.Context, user domain.UserContext, contractID uuid.UUID, content string, source domain.VersionSource) error {
	args := m.Called(ctx, user, contractID, content, source)
	return args.Error(0)
}

func (m *MockService) ListVersions(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ContractVersion, error) {
	args := m.Called(ctx, user, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractVersion), args.Error(1)
}

func (m *MockService) UpdateStatus(ctx context.Context, user domain.UserContext, contractID uuid.UUID, target domain.ContractStatus, reason string) error {
	args := m.Called(ctx, user, contractID, target, reason)
	return args.Error(0)
}

func (m *MockService) GetTransitions(ctx context.Context, user domain.UserContext, contractID uuid.UUID) (*TransitionsResponse, error) {
	args := m.Called(ctx, user, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransitionsResponse), args.Error(1)
}

func (m *MockService) ListActivity(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, user, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

func (m *MockService) ListParties(ctx context.Context, user domain.UserContext, contractID uuid.UUID) ([]domain.ContractParty, error) {
	args := m.Called(ctx, user, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractParty), args.Error(1)
}

func (m *MockService) AddParty(ctx context.Context, user domain.UserContext, contractID uuid.UUID, input AddPartyInput) (*domain.ContractParty, error) {
	args := m.Called(ctx, user, contractID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractParty), args.Error(1)
}

func (m *MockService) RemoveParty(ctx context.Context, user domain.UserContext, contractID, partyID uuid.UUID) error {
	args := m.Called(ctx, user, contractID, partyID)
	return args.Error(0)
}

func (m *MockService) ListRecentContracts(ctx context.Context, user domain.UserContext) ([]domain.Contract, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockService) ListPendingContracts(ctx context.Context, user domain.UserContext) ([]domain.Contract, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockService) Stats(ctx context.Context, user domain.UserContext) (*StatsResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StatsResponse), args.Error(1)
}

func (m *MockService) BulkDownload(ctx context.Context, user domain.UserContext, contractIDs []uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, user, contractIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockService) PublicView(ctx context.Context, contractID uuid.UUID, token string) (*PublicViewResponse, error) {
	args := m.Called(ctx, contractID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PublicViewResponse), args.Error(1)
}

var _ Service = (*MockService)(nil)

func setupRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(logger.NewNop()))

	handler := NewHandler(service)
	identity := &middleware.Identity{}
	authed := identity.IdentityMiddleware()

	router.GET("/contracts", authed, handler.List)
	router.POST("/contracts", authed, handler.Create)
	router.GET("/contracts/stats", authed, handler.Stats)
	router.GET("/contracts/recent", authed, handler.Recent)
	router.GET("/contracts/pending", authed, handler.Pending)
	router.POST("/contracts/bulk-download", authed, handler.BulkDownload)
	router.GET("/contracts/:id", authed, handler.Show)
	router.PATCH("/contracts/:id", authed, handler.Update)
	router.DELETE("/contracts/:id", authed, handler.Delete)
	router.POST("/contracts/:id/duplicate", authed, handler.Duplicate)
	router.PATCH("/contracts/:id/content", authed, handler.UpdateContent)
	router.GET("/contracts/:id/versions", authed, handler.ListVersions)
	router.PATCH("/contracts/:id/status", authed, handler.UpdateStatus)
	router.GET("/contracts/:id/transitions", authed, handler.Transitions)
	router.GET("/contracts/:id/history", authed, handler.History)
	router.GET("/contracts/:id/parties", authed, handler.ListParties)
	router.POST("/contracts/:id/parties", authed, handler.AddParty)
	router.DELETE("/contracts/:id/parties/:partyId", authed, handler.RemoveParty)
	router.GET("/contracts/:id/public", handler.PublicView)

	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", testUser.UserID)
	req.Header.Set("X-User-Email", testUser.UserEmail)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandlerCreate(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	contract := &domain.Contract{ID: uuid.New(), Title: "NDA", Status: domain.StatusDraft}
	service.On("CreateContract", mock.Anything, testUser, "NDA", "nda", "tpl-1").Return(contract, nil)

	recorder := doRequest(router, http.MethodPost, "/contracts", `{"title":"NDA","contractType":"nda","templateId":"tpl-1"}`)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	var body domain.Contract
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, contract.ID, body.ID)
	service.AssertExpectations(t)
}

func TestHandlerCreate_MissingTitle(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodPost, "/contracts", `{"contractType":"nda","templateId":"tpl-1"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apiError.KindValidation)
	service.AssertNotCalled(t, "CreateContract")
}

func TestHandlerMissingIdentity(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apiError.KindUnauthorized)
	service.AssertNotCalled(t, "ListContracts")
}

func TestHandlerList_FilterDefaults(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	expected := ListFilter{SortBy: "createdAt", SortOrder: "desc", Page: 1, PageSize: 20}
	service.On("ListContracts", mock.Anything, testUser, expected).Return(&ContractListResponse{
		Data:       []domain.Contract{},
		Pagination: Pagination{Page: 1, PageSize: 20, TotalPages: 1},
	}, nil)

	recorder := doRequest(router, http.MethodGet, "/contracts", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	service.AssertExpectations(t)
}

func TestHandlerList_StatusAndDates(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	service.On("ListContracts", mock.Anything, testUser, mock.MatchedBy(func(filter ListFilter) bool {
		if filter.Status == nil || *filter.Status != domain.StatusSigning {
			return false
		}
		if filter.FromDate == nil || filter.ToDate == nil {
			return false
		}
		// toDate is widened to the end of the day
		return filter.ToDate.After(*filter.FromDate)
	})).Return(&ContractListResponse{Data: []domain.Contract{}}, nil)

	recorder := doRequest(router, http.MethodGet, "/contracts?status=SIGNING&fromDate=2026-01-01&toDate=2026-01-05", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	service.AssertExpectations(t)
}

func TestHandlerList_InvalidStatus(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodGet, "/contracts?status=BOGUS", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "ListContracts")
}

func TestHandlerShow_InvalidID(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodGet, "/contracts/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apiError.KindValidation)
}

func TestHandlerShow_NotFound(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	contractID := uuid.New()
	service.On("GetContractDetail", mock.Anything, testUser, contractID).
		Return(nil, apiError.NotFound("Contract not found.", nil))

	recorder := doRequest(router, http.MethodGet, "/contracts/"+contractID.String(), "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apiError.KindNotFound)
}

func TestHandlerUpdateStatus(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	contractID := uuid.New()
	service.On("UpdateStatus", mock.Anything, testUser, contractID, domain.StatusCancelled, "dup").Return(nil)

	recorder := doRequest(router, http.MethodPatch, "/contracts/"+contractID.String()+"/status", `{"status":"CANCELLED","reason":"dup"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	service.AssertExpectations(t)
}

func TestHandlerUpdateStatus_PreconditionFailed(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	contractID := uuid.New()
	service.On("UpdateStatus", mock.Anything, testUser, contractID, domain.StatusSigned, "").
		Return(apiError.PreconditionFailed("All parties must be SIGNED.", nil))

	recorder := doRequest(router, http.MethodPatch, "/contracts/"+contractID.String()+"/status", `{"status":"SIGNED"}`)

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apiError.KindPreconditionFailed)
}

func TestHandlerUpdateStatus_UnknownStatus(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodPatch, "/contracts/"+uuid.NewString()+"/status", `{"status":"FROZEN"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "UpdateStatus")
}

func TestHandlerUpdateContent_InvalidSource(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodPatch, "/contracts/"+uuid.NewString()+"/content", `{"content":"x","source":"ROBOT"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "UpdateContent")
}

func TestHandlerAddParty(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	contractID := uuid.New()
	party := &domain.ContractParty{ID: uuid.New(), Role: domain.RoleGuest, Name: "Ben", Email: "ben@example.com", SigningOrder: 2}
	service.On("AddParty", mock.Anything, testUser, contractID, AddPartyInput{
		Role: domain.RoleGuest, Name: "Ben", Email: "ben@example.com",
	}).Return(party, nil)

	recorder := doRequest(router, http.MethodPost, "/contracts/"+contractID.String()+"/parties", `{"role":"GUEST","name":"Ben","email":"ben@example.com"}`)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	service.AssertExpectations(t)
}

func TestHandlerAddParty_BadEmail(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodPost, "/contracts/"+uuid.NewString()+"/parties", `{"role":"GUEST","name":"Ben","email":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "AddParty")
}

func TestHandlerRemoveParty(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	contractID := uuid.New()
	partyID := uuid.New()
	service.On("RemoveParty", mock.Anything, testUser, contractID, partyID).Return(nil)

	recorder := doRequest(router, http.MethodDelete, "/contracts/"+contractID.String()+"/parties/"+partyID.String(), "")

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
	service.AssertExpectations(t)
}

func TestHandlerBulkDownload(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	first := uuid.New()
	second := uuid.New()
	archive := []byte("PK\x03\x04fake")
	service.On("BulkDownload", mock.Anything, testUser, []uuid.UUID{first, second}).Return(archive, nil)

	body := `{"contractIds":["` + first.String() + `","` + second.String() + `"]}`
	recorder := doRequest(router, http.MethodPost, "/contracts/bulk-download", body)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/zip", recorder.Header().Get("Content-Type"))
	assert.Equal(t, archive, recorder.Body.Bytes())
}

func TestHandlerBulkDownload_EmptyIDs(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodPost, "/contracts/bulk-download", `{"contractIds":[]}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "BulkDownload")
}

func TestHandlerPublicView(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	contractID := uuid.New()
	service.On("PublicView", mock.Anything, contractID, "tok-123").Return(&PublicViewResponse{
		ID:      contractID,
		Title:   "NDA",
		Content: "<p>sign me</p>",
	}, nil)

	// no identity headers: the public route must not require them
	req := httptest.NewRequest(http.MethodGet, "/contracts/"+contractID.String()+"/public?token=tok-123", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, strings.Contains(recorder.Body.String(), "sign me"))
	service.AssertExpectations(t)
}

func TestHandlerPublicView_MissingToken(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	recorder := doRequest(router, http.MethodGet, "/contracts/"+uuid.NewString()+"/public", "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "PublicView")
}

func TestHandlerStats(t *testing.T) {
	service := new(MockService)
	router := setupRouter(service)

	service.On("Stats", mock.Anything, testUser).Return(&StatsResponse{
		Total:    3,
		ByStatus: map[domain.ContractStatus]int64{domain.StatusDraft: 3},
	}, nil)

	recorder := doRequest(router, http.MethodGet, "/contracts/stats", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total":3`)
}
