package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SortRating = "rating"
	SortNewest = "newest"
	SortOldest = "oldest"
	SortAZ     = "az"
	SortZA     = "za"
)

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// Record is the projection the engine filters and sorts on. Records without a
// natural rating or category report zero values and simply never match or
// rank on those axes.
type Record interface {
	SearchFields() []string
	SortTitle() string
	SortRating() float64
	SortOrder() int64
	CategoryTag() string
}

type Options struct {
	Term     string
	Category string
	Sort     string
}

// Run returns a filtered, ordered copy of records: filter first, then sort.
// The input slice is never modified and equal sort keys keep their input
// order. An unknown or empty sort key leaves the filtered order as-is.
func Run[T Record](records []T, opts Options) []T {
	term := strings.ToLower(strings.TrimSpace(opts.Term))

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if !matchesTerm(rec, term) || !matchesCategory(rec, opts.Category) {
			continue
		}
		out = append(out, rec)
	}

	sortRecords(out, opts.Sort)
	return out
}

func matchesTerm[T Record](rec T, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range rec.SearchFields() {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesCategory[T Record](rec T, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return rec.CategoryTag() == category
}

func sortRecords[T Record](records []T, key string) {
	switch key {
	case SortRating:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].SortRating() > records[j].SortRating()
		})
	case SortNewest:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].SortOrder() > records[j].SortOrder()
		})
	case SortOldest:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].SortOrder() < records[j].SortOrder()
		})
	case SortAZ, SortZA:
		coll := collate.New(language.Und)
		sort.SliceStable(records, func(i, j int) bool {
			cmp := coll.CompareString(records[i].SortTitle(), records[j].SortTitle())
			if key == SortAZ {
				return cmp < 0
			}
			return cmp > 0
		})
	}
}
