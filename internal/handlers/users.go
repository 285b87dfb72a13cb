package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/BradenHooton/userboard/internal/models"
	"github.com/BradenHooton/userboard/internal/query"
	pkghttp "github.com/BradenHooton/userboard/pkg/http"
	pkglogger "github.com/BradenHooton/userboard/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserStore defines the user store operations the handlers depend on
type UserStore interface {
	FetchAllUsers(ctx context.Context) ([]models.UserRecord, error)
	FetchFilteredUsers(ctx context.Context, filter, search string) ([]models.UserRecord, error)
	ClearCache(ctx context.Context) error
	InvalidateCache()
	State() models.FetchState
}

// UserHandler serves the users dashboard views
type UserHandler struct {
	store    UserStore
	pageSize int
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
	ipConfig *pkghttp.IPConfig
}

// NewUserHandler creates a new UserHandler. A pageSize below one falls back
// to models.DefaultPageSize.
func NewUserHandler(store UserStore, pageSize int, logger *slog.Logger, ipConfig *pkghttp.IPConfig) *UserHandler {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	return &UserHandler{
		store:    store,
		pageSize: pageSize,
		logger:   logger,
		audit:    pkglogger.NewAuditLogger(logger),
		ipConfig: ipConfig,
	}
}

// Request/Response DTOs

// ListUsersRequest holds the view query parameters of GET /users
type ListUsersRequest struct {
	Page          int    `query:"page" validate:"gte=1"`
	SortBy        string `query:"sortBy" validate:"omitempty,user_column"`
	SortDirection string `query:"sortDirection" validate:"omitempty,oneof=asc desc"`
	Filter        string `query:"filter" validate:"max=32"`
	Search        string `query:"search" validate:"max=100"`
	Toggle        string `query:"toggle" validate:"omitempty,user_column"`
}

// SearchUsersRequest holds the parameters of GET /users/search
type SearchUsersRequest struct {
	Filter string `query:"filter" validate:"max=32"`
	Search string `query:"search" validate:"max=100"`
}

// ListUsersResponse is the view contract: the visible page plus fetch status
type ListUsersResponse struct {
	Data       []models.UserRecord   `json:"data"`
	Pagination models.PaginationInfo `json:"pagination"`
	Query      models.ViewQuery      `json:"query"`
	Loading    bool                  `json:"loading"`
	Error      *string               `json:"error"`
}

// SearchUsersResponse represents a filtered list of users
type SearchUsersResponse struct {
	Users []models.UserRecord `json:"users"`
	Total int                 `json:"total"`
}

// StateResponse describes the store without its data
type StateResponse struct {
	Loading       bool       `json:"loading"`
	Error         *string    `json:"error"`
	LastFetched   *time.Time `json:"lastFetched"`
	TotalUsers    int        `json:"totalUsers"`
	CachedQueries int        `json:"cachedQueries"`
}

// RegisterRoutes registers the user view routes with the chi router
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)         // GET /users
		r.Get("/search", h.SearchUsers) // GET /users/search
		r.Get("/state", h.GetState)     // GET /users/state
	})
}

// ListUsers returns one page of the searched, filtered and sorted user list
//
// @Summary List users for the dashboard table
// @Param page query int false "Page (default 1)" default(1)
// @Param sortBy query string false "Column to sort by (default id)"
// @Param sortDirection query string false "asc or desc (default asc)"
// @Param filter query string false "Gender or all (default all)"
// @Param search query string false "Case-insensitive name, email or username search"
// @Param toggle query string false "Column header clicked; flips or sets the sort"
// @Produce json
// @Success 200 {object} ListUsersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ListUsersResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pkghttp.QueryInt(r, "page", 1, 1, math.MaxInt32)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	params := r.URL.Query()
	req := ListUsersRequest{
		Page:          page,
		SortBy:        params.Get("sortBy"),
		SortDirection: params.Get("sortDirection"),
		Filter:        params.Get("filter"),
		Search:        params.Get("search"),
		Toggle:        params.Get("toggle"),
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	q := buildViewQuery(req)

	status := http.StatusOK
	var errMsg *string

	users, err := h.store.FetchAllUsers(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			// client went away
			return
		}
		msg := models.ErrorMessage(err, models.MsgFetchFailed)
		errMsg = &msg
		status = http.StatusBadGateway
		// serve whatever the last successful fetch left behind
		users = h.store.State().Data
	}

	result := query.Process(users, q, h.pageSize)
	q = query.WithPage(q, q.Page, result.Pagination.TotalPages)

	pkghttp.WriteJSON(w, status, ListUsersResponse{
		Data:       result.Data,
		Pagination: result.Pagination,
		Query:      q,
		Loading:    h.store.State().Loading,
		Error:      errMsg,
	})
}

// buildViewQuery replays the request onto the default view state. Filter
// and search changes send the view back to the first page, so the requested
// page is applied after them, and a toggle is applied last.
func buildViewQuery(req ListUsersRequest) models.ViewQuery {
	q := query.DefaultViewQuery()
	if req.SortBy != "" || req.SortDirection != "" {
		column, direction := q.SortBy, q.SortDirection
		if req.SortBy != "" {
			column = req.SortBy
		}
		if req.SortDirection != "" {
			direction = req.SortDirection
		}
		q = query.WithSort(q, column, direction)
	}
	if req.Filter != "" {
		q = query.WithFilter(q, req.Filter)
	}
	q = query.WithSearch(q, req.Search)
	q.Page = req.Page

	if req.Toggle != "" {
		q = query.ToggleSort(q, req.Toggle)
	}
	return q
}

// SearchUsers returns every user matching the gender filter and search text
//
// @Summary Search users
// @Param filter query string false "Gender or all"
// @Param search query string false "Search text"
// @Produce json
// @Success 200 {object} SearchUsersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	req := SearchUsersRequest{
		Filter: params.Get("filter"),
		Search: params.Get("search"),
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	users, err := h.store.FetchFilteredUsers(r.Context(), req.Filter, req.Search)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		pkghttp.WriteBadGateway(w, models.ErrorMessage(err, models.MsgFetchFilterFailed))
		return
	}

	if users == nil {
		users = []models.UserRecord{}
	}
	pkghttp.WriteJSON(w, http.StatusOK, SearchUsersResponse{
		Users: users,
		Total: len(users),
	})
}

// GetState reports whether a fetch is running, the last error and when the
// list was last fetched
//
// @Summary User store status
// @Produce json
// @Success 200 {object} StateResponse
// @Router /users/state [get]
func (h *UserHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state := h.store.State()

	resp := StateResponse{
		Loading:       state.Loading,
		TotalUsers:    len(state.Data),
		CachedQueries: state.CachedQueries,
	}
	if state.Error != "" {
		resp.Error = &state.Error
	}
	if !state.LastFetched.IsZero() {
		resp.LastFetched = &state.LastFetched
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// ClearCache drops every cached query and the revalidation token
//
// @Summary Clear the user cache
// @Success 204
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cache/clear [post]
func (h *UserHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	err := h.store.ClearCache(r.Context())
	h.auditCacheAction(r, pkglogger.EventCacheClear, err)
	if err != nil {
		h.logger.Error("failed to clear cache", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Failed to clear cache")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InvalidateCache forces the next list request to refetch
//
// @Summary Invalidate the user list
// @Success 204
// @Failure 429 {object} ErrorResponse
// @Router /cache/invalidate [post]
func (h *UserHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.store.InvalidateCache()
	h.auditCacheAction(r, pkglogger.EventCacheInvalidate, nil)

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) auditCacheAction(r *http.Request, eventType string, err error) {
	event := pkglogger.AuditEvent{
		EventType: eventType,
		RequestID: middleware.GetReqID(r.Context()),
		IPAddress: pkghttp.ExtractClientIP(r, h.ipConfig),
		UserAgent: r.UserAgent(),
		Success:   err == nil,
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			event.FailureReason = "canceled"
		} else {
			event.FailureReason = err.Error()
		}
	}
	h.audit.LogCacheAction(event)
}
