package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a WGS-84 latitude/longitude pair. Valid is false for the
// "absent" value produced when the input is missing or malformed. Ranges are
// not checked.
type Coordinates struct {
	Lat   float64
	Lon   float64
	Valid bool
}

// Location renders the pair as "{lat},{lon}", the form used in provider
// requests, cache keys, and logs.
func (c Coordinates) Location() string {
	return fmt.Sprintf("%s,%s", formatCoordinate(c.Lat), formatCoordinate(c.Lon))
}

// formatCoordinate writes the shortest decimal form, keeping a ".0" on
// integral values (45 -> "45.0").
func formatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".nN") {
		s += ".0"
	}
	return s
}

// ParseCoordinates reads a stringified two-element sequence such as
// "[45.5, -73.6]" or "(45.5, -73.6)". Missing input, syntax errors, a wrong
// element count, or non-numeric elements all yield the absent value.
func ParseCoordinates(text string) Coordinates {
	if IsMissing(text) {
		return Coordinates{}
	}

	elems, ok := splitSequence(text)
	if !ok || len(elems) != 2 {
		return Coordinates{}
	}

	lat, ok := literalFloat(elems[0])
	if !ok {
		return Coordinates{}
	}
	lon, ok := literalFloat(elems[1])
	if !ok {
		return Coordinates{}
	}
	return Coordinates{Lat: lat, Lon: lon, Valid: true}
}

// splitSequence splits a list or tuple literal into its trimmed elements.
// A bare "a, b" is read as a tuple and one trailing comma is allowed.
func splitSequence(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"),
		strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		s = s[1 : len(s)-1]
	case strings.ContainsRune(s, ','):
	default:
		return nil, false
	}

	var (
		elems []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == ',':
			elems = append(elems, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, false
	}
	if last := strings.TrimSpace(cur.String()); last != "" {
		elems = append(elems, last)
	}
	for _, e := range elems {
		if e == "" {
			return nil, false
		}
	}
	return elems, true
}

// literalFloat converts one sequence element to a float. Numeric literals,
// quoted numeric strings, and the booleans True/False are accepted.
func literalFloat(elem string) (float64, bool) {
	if n := len(elem); n >= 2 && (elem[0] == '\'' || elem[0] == '"') && elem[n-1] == elem[0] {
		v, err := strconv.ParseFloat(strings.TrimSpace(elem[1:n-1]), 64)
		return v, err == nil
	}

	switch elem {
	case "True":
		return 1, true
	case "False":
		return 0, true
	}

	sign := ""
	if elem[0] == '-' || elem[0] == '+' {
		sign = elem[:1]
		elem = strings.TrimSpace(elem[1:])
	}
	// Bare names like nan or inf are not literals.
	if elem == "" || !(elem[0] == '.' || (elem[0] >= '0' && elem[0] <= '9')) {
		return 0, false
	}
	v, err := strconv.ParseFloat(sign+elem, 64)
	return v, err == nil
}
