package models

import "time"

// Sort directions
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// FilterAll is the gender filter value that disables filtering
const FilterAll = "all"

// DefaultPageSize matches the upstream listing's default limit
const DefaultPageSize = 10

// ViewQuery is the transient state of one users table view
type ViewQuery struct {
	Page          int    `json:"page"`
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
	Filter        string `json:"filter"`
	Search        string `json:"search"`
}

// PaginationInfo is derived from the page, the item count and the page size
type PaginationInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	StartIndex  int  `json:"startIndex"`
	EndIndex    int  `json:"endIndex"`
	TotalItems  int  `json:"totalItems"`
	PageSize    int  `json:"pageSize"`
	IsFirstPage bool `json:"isFirstPage"`
	IsLastPage  bool `json:"isLastPage"`
	HasResults  bool `json:"hasResults"`
}

// ViewResult is the visible slice plus its pagination metadata
type ViewResult struct {
	Data       []UserRecord   `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// FetchState is a point-in-time snapshot of the user store
type FetchState struct {
	Data          []UserRecord
	Loading       bool
	Error         string
	LastFetched   time.Time
	CachedQueries int
}
