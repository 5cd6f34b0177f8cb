package catalog

import (
	"encoding/json"
	"testing"

	"github.com/byxorna/shelf/pkg/types/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherShapes(t *testing.T) {
	testcases := map[string]v1.Publisher{
		`{"isbn":"1","title":"t","publisher":"O'Reilly"}`:                                     {Name: "O'Reilly"},
		`{"isbn":"1","title":"t","publisher":{"name":"Manning","url":"https://manning.com"}}`: {Name: "Manning", URL: "https://manning.com"},
		`{"isbn":"1","title":"t","publisher":{"name":"Manning"}}`:                             {Name: "Manning"},
		`{"isbn":"1","title":"t","publisher":null}`:                                           {},
		`{"isbn":"1","title":"t"}`:                                                            {},
	}
	for input, expected := range testcases {
		var w wireBook
		require.NoError(t, json.Unmarshal([]byte(input), &w), input)
		b := w.toBook()
		assert.Equal(t, expected, b.Publisher, input)
		assert.Equal(t, expected.Name, b.Publisher.DisplayName(), input)
	}
}

func TestPublisherRejectsOtherShapes(t *testing.T) {
	var w wireBook
	assert.Error(t, json.Unmarshal([]byte(`{"publisher":[1,2]}`), &w))
}

func TestNumPages(t *testing.T) {
	testcases := map[string]*int{
		`{"numPages":312}`:    intPtr(312),
		`{"numPages":"312"}`:  intPtr(312),
		`{"numPages":null}`:   nil,
		`{"numPages":"many"}`: nil,
		`{}`:                  nil,
	}
	for input, expected := range testcases {
		var w wireBook
		require.NoError(t, json.Unmarshal([]byte(input), &w), input)
		assert.Equal(t, expected, w.toBook().NumPages, input)
	}
}

func TestIdentifierPrefersISBN(t *testing.T) {
	var w wireBook
	require.NoError(t, json.Unmarshal([]byte(`{"id":"7","isbn":"978-1"}`), &w))
	assert.Equal(t, v1.ID("978-1"), w.toBook().ID)

	w = wireBook{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"7"}`), &w))
	assert.Equal(t, v1.ID("7"), w.toBook().ID)
}

func intPtr(n int) *int { return &n }
