package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCoordinates(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Coordinates
	}{
		{name: "list", input: "[45.5, -73.6]", want: Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}},
		{name: "tuple", input: "(45.5, -73.6)", want: Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}},
		{name: "bare tuple", input: "45.5, -73.6", want: Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}},
		{name: "integers", input: "[45, -73]", want: Coordinates{Lat: 45, Lon: -73, Valid: true}},
		{name: "trailing comma", input: "[45.5, -73.6,]", want: Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}},
		{name: "quoted elements", input: `['45.5', "-73.6"]`, want: Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}},
		{name: "surrounding whitespace", input: "  [ 45.5 ,-73.6 ]  ", want: Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}},
		{name: "out of range passes through", input: "[123.4, 500]", want: Coordinates{Lat: 123.4, Lon: 500, Valid: true}},
		{name: "empty", input: ""},
		{name: "NaN cell", input: "NaN"},
		{name: "None literal", input: "None"},
		{name: "three elements", input: "[1,2,3]"},
		{name: "one element", input: "[1]"},
		{name: "empty list", input: "[]"},
		{name: "not a list", input: "not a list"},
		{name: "non-numeric element", input: "[45.5, abc]"},
		{name: "bare nan element", input: "[nan, 1]"},
		{name: "nested lists", input: "[[1, 2], [3, 4]]"},
		{name: "double comma", input: "[1,,2]"},
		{name: "unterminated quote", input: "['45.5, -73.6]"},
		{name: "mismatched brackets", input: "[45.5, -73.6)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseCoordinates(tc.input))
		})
	}
}

func TestCoordinates_Location(t *testing.T) {
	assert.Equal(t, "45.5,-73.6", Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}.Location())
	assert.Equal(t, "45.0,-73.0", Coordinates{Lat: 45, Lon: -73, Valid: true}.Location())
	assert.Equal(t, "0.000123,10.25", Coordinates{Lat: 0.000123, Lon: 10.25, Valid: true}.Location())
}
