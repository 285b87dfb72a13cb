package query

import "github.com/BradenHooton/userboard/internal/models"

// DefaultViewQuery is the state of a freshly mounted view
func DefaultViewQuery() models.ViewQuery {
	return models.ViewQuery{
		Page:          1,
		SortBy:        models.ColumnID,
		SortDirection: models.SortAsc,
		Filter:        models.FilterAll,
		Search:        "",
	}
}

// WithSearch sets the search text and goes back to the first page
func WithSearch(q models.ViewQuery, search string) models.ViewQuery {
	q.Search = search
	q.Page = 1
	return q
}

// WithFilter sets the gender filter and goes back to the first page
func WithFilter(q models.ViewQuery, filter string) models.ViewQuery {
	q.Filter = filter
	q.Page = 1
	return q
}

// WithSort sets column and direction explicitly and goes back to the first page
func WithSort(q models.ViewQuery, column, direction string) models.ViewQuery {
	q.SortBy = column
	q.SortDirection = direction
	q.Page = 1
	return q
}

// ToggleSort handles a click on a column header: clicking the current
// ascending column flips it to descending, anything else sorts ascending.
func ToggleSort(q models.ViewQuery, column string) models.ViewQuery {
	direction := models.SortAsc
	if q.SortBy == column && q.SortDirection == models.SortAsc {
		direction = models.SortDesc
	}
	return WithSort(q, column, direction)
}

// WithPage moves to page, never past totalPages
func WithPage(q models.ViewQuery, page, totalPages int) models.ViewQuery {
	q.Page = min(page, totalPages)
	return q
}
