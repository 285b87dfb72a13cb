// Package query derives the visible slice of users for a table view.
//
// Stages always run in the same order: search, gender filter, sort,
// paginate. Each stage narrows the input of the next one.
package query

import (
	"slices"
	"strings"

	"github.com/BradenHooton/userboard/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Process returns the page of users selected by q. The input slice is never
// modified.
func Process(users []models.UserRecord, q models.ViewQuery, pageSize int) models.ViewResult {
	result := Search(users, q.Search)
	result = FilterByGender(result, q.Filter)
	result = SortUsers(result, q.SortBy, q.SortDirection)

	pagination := Paginate(len(result), pageSize, q.Page)

	page := result[pagination.StartIndex:pagination.EndIndex]
	if page == nil {
		page = []models.UserRecord{}
	}

	return models.ViewResult{
		Data:       page,
		Pagination: pagination,
	}
}

// Search keeps users whose first name, last name, email or username contains
// term, ignoring case. An empty term keeps everyone.
func Search(users []models.UserRecord, term string) []models.UserRecord {
	if term == "" {
		return slices.Clone(users)
	}

	needle := strings.ToLower(term)
	out := make([]models.UserRecord, 0, len(users))
	for _, u := range users {
		if MatchesSearch(&u, needle) {
			out = append(out, u)
		}
	}
	return out
}

// MatchesSearch expects needle to be lower-cased already
func MatchesSearch(u *models.UserRecord, needle string) bool {
	return strings.Contains(strings.ToLower(u.FirstName), needle) ||
		strings.Contains(strings.ToLower(u.LastName), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle) ||
		strings.Contains(strings.ToLower(u.Username), needle)
}

// FilterByGender keeps users whose gender equals gender exactly. An empty
// value or models.FilterAll keeps everyone.
func FilterByGender(users []models.UserRecord, gender string) []models.UserRecord {
	if gender == "" || gender == models.FilterAll {
		return slices.Clone(users)
	}

	out := make([]models.UserRecord, 0, len(users))
	for _, u := range users {
		if u.GenderValue() == gender {
			out = append(out, u)
		}
	}
	return out
}

// SortUsers stable-sorts a copy of users by column.
//
// Strings use English collation, numbers compare numerically, and any other
// pairing (a missing optional field, or an unknown column) compares equal so
// those rows keep their relative order. Descending negates the comparator
// instead of reversing the result, which keeps ties in input order.
func SortUsers(users []models.UserRecord, column, direction string) []models.UserRecord {
	out := slices.Clone(users)
	col := collate.New(language.English)

	sign := 1
	if direction == models.SortDesc {
		sign = -1
	}

	slices.SortStableFunc(out, func(a, b models.UserRecord) int {
		return sign * compareValues(col, a.Value(column), b.Value(column))
	})
	return out
}

func compareValues(col *collate.Collator, a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return col.CompareString(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return 0
}

// Paginate computes the window of a list of total items shown on page.
// The page is clamped into [1, TotalPages] and TotalPages is at least 1.
func Paginate(total, pageSize, page int) models.PaginationInfo {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	totalPages := max((total+pageSize-1)/pageSize, 1)
	current := min(max(page, 1), totalPages)

	start := (current - 1) * pageSize
	end := min(start+pageSize, total)

	return models.PaginationInfo{
		CurrentPage: current,
		TotalPages:  totalPages,
		StartIndex:  start,
		EndIndex:    end,
		TotalItems:  total,
		PageSize:    pageSize,
		IsFirstPage: current == 1,
		IsLastPage:  current == totalPages,
		HasResults:  total > 0,
	}
}
