package v1

// AnyPublisher disables the publisher facet.
const AnyPublisher = "-"

// FilterCriteria is the current search and facet selection of a page.
type FilterCriteria struct {
	SearchTerm     string
	PublisherFacet string
}

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{PublisherFacet: AnyPublisher}
}

// FacetActive reports whether the publisher facet restricts anything.
func (c FilterCriteria) FacetActive() bool {
	return c.PublisherFacet != "" && c.PublisherFacet != AnyPublisher
}
