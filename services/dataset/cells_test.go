package dataset

import (
	"reflect"
	"testing"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want []string
	}{
		{"objects", "[{'id': 1, 'name': 'Rescue'}, {'id': 2, 'name': 'Space Travel'}]", []string{"rescue", "space travel"}},
		{"strings", "['Rescue', 'Mission']", []string{"rescue", "mission"}},
		{"text", "Rescue, Mission ,", []string{"rescue", "mission"}},
		{"native list", []any{"Heist", " Bank "}, []string{"heist", "bank"}},
		{"scalar", int64(42), []string{"42"}},
		{"empty", "", []string{}},
		{"nil", nil, []string{}},
		{"empty list", "[]", []string{}},
		{"broken literal", "[{'name': 'x'", []string{"[{'name': 'x'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeywords(tt.cell)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeywords(%v) = %#v, want %#v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestParseKeywords_AlwaysLowerCase(t *testing.T) {
	cells := []any{"['ABC', 'dEf']", "X, Y", []any{map[string]any{"name": "UPPER"}}}
	for _, c := range cells {
		for _, k := range ParseKeywords(c) {
			if k != lowerASCII(k) {
				t.Errorf("ParseKeywords(%v) returned %q which is not lower-case", c, k)
			}
		}
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func TestParseGenres(t *testing.T) {
	byName := map[string]int{"Action": 28, "Drama": 18}
	tests := []struct {
		name string
		cell any
		want []int
	}{
		{"objects", "[{'id': 28, 'name': 'Action'}, {'id': 18, 'name': 'Drama'}]", []int{28, 18}},
		{"numbers", "[28, 18]", []int{28, 18}},
		{"native numbers", []any{int64(18)}, []int{18}},
		{"names literal", "['Drama', 'Unknown']", []int{18}},
		{"names text", "Action, Drama", []int{28, 18}},
		{"unknown text", "Western", []int{}},
		{"blank", " ", []int{}},
		{"nil", nil, []int{}},
		{"native objects", []any{map[string]any{"id": int64(28), "name": "Action"}}, []int{28}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGenres(tt.cell, byName)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseGenres(%v) = %#v, want %#v", tt.cell, got, tt.want)
			}
		})
	}
}
