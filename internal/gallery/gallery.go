// Package gallery derives the browsing views of the portfolio: facet lists,
// search, filtering and sorting of artworks and videos.
//
// All functions are pure: inputs are never modified.
package gallery

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/maruel/portfolio/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// All is the facet value meaning "no filter".
const All = "all"

// Sort orders.
const (
	SortDate     = "date"
	SortTitle    = "title"
	SortDuration = "duration"
)

// Query selects and orders items.
type Query struct {
	// Search is matched case-insensitively against title and description.
	Search string
	// Category is matched exactly. Empty or All disables the filter.
	Category string
	// Tag must be one of the item's tags. Empty or All disables the filter.
	Tag string
	// Sort is one of SortDate (default), SortTitle or, for videos, SortDuration.
	Sort string
}

// ValidSort reports whether s is a known order. forVideos allows SortDuration.
func ValidSort(s string, forVideos bool) bool {
	switch s {
	case "", SortDate, SortTitle:
		return true
	case SortDuration:
		return forVideos
	}
	return false
}

// ArtworkCategories returns the distinct categories in first-seen order.
func ArtworkCategories(items []models.Artwork) []string {
	return distinct(items, func(a *models.Artwork) []string { return []string{a.Category} })
}

// ArtworkTags returns the distinct tags in first-seen order.
func ArtworkTags(items []models.Artwork) []string {
	return distinct(items, func(a *models.Artwork) []string { return a.Tags })
}

// VideoTags returns the distinct tags in first-seen order.
func VideoTags(items []models.Video) []string {
	return distinct(items, func(v *models.Video) []string { return v.Tags })
}

func distinct[T any](items []T, values func(*T) []string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for i := range items {
		for _, v := range values(&items[i]) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// FilterArtworks returns the artworks matching q, ordered by q.Sort.
func FilterArtworks(items []models.Artwork, q *Query) []models.Artwork {
	search := strings.ToLower(q.Search)
	out := make([]models.Artwork, 0, len(items))
	for i := range items {
		a := &items[i]
		if !matchText(search, a.Title, a.Description) || !matchFacet(q.Category, a.Category) || !matchTag(q.Tag, a.Tags) {
			continue
		}
		out = append(out, a.Clone())
	}
	switch q.Sort {
	case SortTitle:
		sortByTitle(out, func(a *models.Artwork) string { return a.Title })
	case SortDate, "":
		sortByDate(out, func(a *models.Artwork) string { return a.Date })
	}
	return out
}

// FilterVideos returns the videos matching q, ordered by q.Sort. Videos have
// no category, so q.Category is ignored.
func FilterVideos(items []models.Video, q *Query) []models.Video {
	search := strings.ToLower(q.Search)
	out := make([]models.Video, 0, len(items))
	for i := range items {
		v := &items[i]
		if !matchText(search, v.Title, v.Description) || !matchTag(q.Tag, v.Tags) {
			continue
		}
		out = append(out, v.Clone())
	}
	switch q.Sort {
	case SortTitle:
		sortByTitle(out, func(v *models.Video) string { return v.Title })
	case SortDuration:
		slices.SortStableFunc(out, func(a, b models.Video) int { return CompareDurations(a.Duration, b.Duration) })
	case SortDate, "":
		sortByDate(out, func(v *models.Video) string { return v.Date })
	}
	return out
}

func matchText(lowered string, fields ...string) bool {
	if lowered == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowered) {
			return true
		}
	}
	return false
}

func matchFacet(want, got string) bool {
	return want == "" || want == All || want == got
}

func matchTag(want string, tags []string) bool {
	return want == "" || want == All || slices.Contains(tags, want)
}

// sortByDate orders newest first. Dates that do not parse sort last.
func sortByDate[T any](items []T, date func(*T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, errA := time.Parse(models.DateLayout, date(&a))
		tb, errB := time.Parse(models.DateLayout, date(&b))
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return tb.Compare(ta)
	})
}

// sortByTitle orders titles with Chinese collation, which also orders Latin
// text alphabetically.
func sortByTitle[T any](items []T, title func(*T) string) {
	c := collate.New(language.Chinese)
	slices.SortStableFunc(items, func(a, b T) int {
		if r := c.CompareString(title(&a), title(&b)); r != 0 {
			return r
		}
		return cmp.Compare(title(&a), title(&b))
	})
}
