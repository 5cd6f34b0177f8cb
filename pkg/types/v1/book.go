package v1

import (
	"github.com/go-playground/validator"
)

// Book is a single catalog entry.
type Book struct {
	ID        ID        `json:"isbn" validate:"required"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Author    string    `json:"author"`
	Publisher Publisher `json:"publisher"`
	Abstract  string    `json:"abstract,omitempty"`
	NumPages  *int      `json:"numPages,omitempty"`
	Price     string    `json:"price,omitempty"`
	Cover     string    `json:"cover,omitempty"`
}

// Publisher is the canonical structured publisher. Catalog sources that send a
// bare name are normalized into this shape at the fetch boundary.
type Publisher struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// DisplayName is the value filters compare against and rows display.
func (p Publisher) DisplayName() string { return p.Name }

// Validate checks the fields every catalog record must carry. Only the
// identifier is required; an untitled record still renders.
func (b *Book) Validate() error {
	validate := validator.New()
	return validate.Struct(*b)
}
