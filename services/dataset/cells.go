package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/webtor-io/movie-explorer/services/common"
	"gopkg.in/yaml.v3"
)

// Cells of the genres and keywords columns come either as literal lists
// ("[{'id': 28, 'name': 'Action'}]", "['rescue', 'mission']"), as native parquet
// lists or as human entered comma separated text. Every column has an ordered list
// of parsers, the first one that accepts the cell wins and the last one always does.

type keywordParser func(cell any) ([]string, bool)

type genreParser func(cell any, byName map[string]int) ([]int, bool)

var keywordParsers = []keywordParser{
	keywordsFromObjects,
	keywordsFromStrings,
	keywordsFromText,
	keywordsFromScalar,
}

var genreParsers = []genreParser{
	genresFromObjects,
	genresFromNumbers,
	genresFromNames,
}

func ParseKeywords(cell any) []string {
	if isBlank(cell) {
		return []string{}
	}
	for _, p := range keywordParsers {
		if res, ok := p(cell); ok {
			return res
		}
	}
	return []string{}
}

func ParseGenres(cell any, byName map[string]int) []int {
	if isBlank(cell) {
		return []int{}
	}
	for _, p := range genreParsers {
		if res, ok := p(cell, byName); ok {
			return res
		}
	}
	return []int{}
}

func isBlank(cell any) bool {
	switch v := cell.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return math.IsNaN(v)
	}
	return false
}

// literalList decodes cell as a list. Literal lists use flow syntax which is
// understood by the yaml decoder, including single quoted strings.
func literalList(cell any) ([]any, bool) {
	switch v := cell.(type) {
	case []any:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if !strings.HasPrefix(s, "[") {
			return nil, false
		}
		var res any
		if err := yaml.Unmarshal([]byte(s), &res); err != nil {
			return nil, false
		}
		l, ok := res.([]any)
		if !ok {
			return nil, false
		}
		return l, true
	}
	return nil, false
}

func keywordsFromObjects(cell any) ([]string, bool) {
	l, ok := literalList(cell)
	if !ok {
		return nil, false
	}
	var names []any
	for _, item := range l {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		name, ok := m["name"]
		if !ok {
			return nil, false
		}
		names = append(names, name)
	}
	return normalizeKeywords(names), true
}

func keywordsFromStrings(cell any) ([]string, bool) {
	l, ok := literalList(cell)
	if !ok {
		return nil, false
	}
	for _, item := range l {
		if _, ok := item.(string); !ok {
			return nil, false
		}
	}
	return normalizeKeywords(l), true
}

func keywordsFromText(cell any) ([]string, bool) {
	s, ok := cell.(string)
	if !ok {
		return nil, false
	}
	var parts []any
	for _, p := range strings.Split(s, ",") {
		parts = append(parts, p)
	}
	return normalizeKeywords(parts), true
}

func keywordsFromScalar(cell any) ([]string, bool) {
	return normalizeKeywords([]any{cell}), true
}

func normalizeKeywords(items []any) []string {
	res := []string{}
	for _, item := range items {
		k := common.Lower(stringify(item))
		if k == "" {
			continue
		}
		res = append(res, k)
	}
	return res
}

func genresFromObjects(cell any, _ map[string]int) ([]int, bool) {
	l, ok := literalList(cell)
	if !ok {
		return nil, false
	}
	res := []int{}
	for _, item := range l {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		id, ok := toInt(m["id"])
		if !ok {
			return nil, false
		}
		res = append(res, id)
	}
	return res, true
}

func genresFromNumbers(cell any, _ map[string]int) ([]int, bool) {
	l, ok := literalList(cell)
	if !ok {
		return nil, false
	}
	res := []int{}
	for _, item := range l {
		if _, isString := item.(string); isString {
			return nil, false
		}
		id, ok := toInt(item)
		if !ok {
			return nil, false
		}
		res = append(res, id)
	}
	return res, true
}

func genresFromNames(cell any, byName map[string]int) ([]int, bool) {
	var names []string
	if l, ok := literalList(cell); ok {
		for _, item := range l {
			if n, ok := item.(string); ok {
				names = append(names, n)
			}
		}
	} else if s, ok := cell.(string); ok {
		names = strings.Split(s, ",")
	}
	res := []int{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if id, ok := byName[name]; ok {
			res = append(res, id)
		}
	}
	return res, true
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
