package question

import (
	"strconv"
	"strings"
)

// CategoryIndex maps category id to its label.
type CategoryIndex map[int64]string

// BuildCategoryIndex keys every category by id. Empty input yields an empty index.
func BuildCategoryIndex(categories []Category) CategoryIndex {
	index := make(CategoryIndex, len(categories))
	for _, c := range categories {
		index[c.ID] = c.Type
	}
	return index
}

// Paginate returns the 1-indexed page of items in their given order. A page past
// the end is empty, never an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if page-1 >= (len(items)+pageSize-1)/pageSize {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// ParsePage reads a page query value, defaulting to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Search keeps questions whose text contains term, ignoring case.
func Search(items []Question, term string) []Question {
	needle := strings.ToLower(term)
	matches := make([]Question, 0)
	for _, q := range items {
		if strings.Contains(strings.ToLower(q.Question), needle) {
			matches = append(matches, q)
		}
	}
	return matches
}
