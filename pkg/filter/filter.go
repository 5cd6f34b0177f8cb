// Package filter derives the displayed view from the catalog, the current
// criteria and, on the favorites page, the favorite set.
package filter

import (
	"github.com/byxorna/shelf/pkg/text"
	"github.com/byxorna/shelf/pkg/types/v1"
)

// Derive keeps the books in scope whose title contains the search term and
// whose publisher matches the facet. The result preserves the order of items,
// never repeats a book and is never nil. A nil scope means the whole catalog.
func Derive(items []v1.Book, criteria v1.FilterCriteria, scope *v1.FavoriteSet) []v1.Book {
	var members map[v1.ID]struct{}
	if scope != nil {
		members = scope.Index()
	}
	needle := text.Fold(criteria.SearchTerm)

	out := make([]v1.Book, 0, len(items))
	for _, b := range items {
		if members != nil {
			if _, ok := members[b.ID]; !ok {
				continue
			}
		}
		if !MatchesSearch(b, needle) {
			continue
		}
		if criteria.FacetActive() && b.Publisher.DisplayName() != criteria.PublisherFacet {
			continue
		}
		out = append(out, b)
	}
	return out
}

// MatchesSearch reports whether b's title contains the already folded needle.
func MatchesSearch(b v1.Book, foldedNeedle string) bool {
	if foldedNeedle == "" {
		return true
	}
	return text.ContainsFolded(text.Fold(b.Title), foldedNeedle)
}

// Scope returns the books of items whose id is in favorites, in catalog order.
func Scope(items []v1.Book, favorites v1.FavoriteSet) []v1.Book {
	return Derive(items, v1.DefaultCriteria(), &favorites)
}

// Publishers lists the distinct publisher names of items in first-seen order,
// for populating the facet selector.
func Publishers(items []v1.Book) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, b := range items {
		name := b.Publisher.DisplayName()
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// FacetOptions is the selector's option list: the sentinel first, then the
// publishers of items.
func FacetOptions(items []v1.Book) []string {
	return append([]string{v1.AnyPublisher}, Publishers(items)...)
}
