package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/byxorna/shelf/pkg/types/v1"
)

// wireBook is a book record as the catalog service sends it. Older versions of
// the service send publisher as a bare string, newer ones as {name, url}.
type wireBook struct {
	ID        string        `json:"id"`
	ISBN      string        `json:"isbn"`
	Title     string        `json:"title"`
	Subtitle  string        `json:"subtitle"`
	Author    string        `json:"author"`
	Publisher wirePublisher `json:"publisher"`
	Abstract  string        `json:"abstract"`
	NumPages  wirePages     `json:"numPages"`
	Price     string        `json:"price"`
	Cover     string        `json:"cover"`
}

type wirePublisher v1.Publisher

func (p *wirePublisher) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = wirePublisher{}
		return nil
	}
	if b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*p = wirePublisher{Name: name}
		return nil
	}
	var structured struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(b, &structured); err != nil {
		return fmt.Errorf("publisher is neither a name nor {name,url}: %w", err)
	}
	*p = wirePublisher{Name: structured.Name, URL: structured.URL}
	return nil
}

// wirePages tolerates page counts sent as numbers or numeric strings.
type wirePages struct {
	n *int
}

func (p *wirePages) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		p.n = nil
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// an unparseable page count is treated as unknown
		p.n = nil
		return nil
	}
	p.n = &n
	return nil
}

func (w wireBook) toBook() v1.Book {
	id := w.ISBN
	if id == "" {
		id = w.ID
	}
	return v1.Book{
		ID:        v1.ID(strings.TrimSpace(id)),
		Title:     w.Title,
		Subtitle:  w.Subtitle,
		Author:    w.Author,
		Publisher: v1.Publisher(w.Publisher),
		Abstract:  w.Abstract,
		NumPages:  w.NumPages.n,
		Price:     w.Price,
		Cover:     w.Cover,
	}
}
