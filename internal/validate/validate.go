// Package validate checks row values against LIST master data categories
// and suggests replacements for values that are not on the list.
package validate

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// Mapping assigns a LIST category id to an input column.
type Mapping map[string]string

// Result maps each column with failures to the zero-based indices of the
// rows whose value is not in the category.
type Result map[string][]int

// Valid reports whether no column failed.
func (r Result) Valid() bool { return len(r) == 0 }

// Columns returns the failing columns in name order.
func (r Result) Columns() []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Run validates rows against the mapped categories. Values are trimmed and
// compared without regard to case. Mappings to a missing or non-LIST
// category are ignored.
func Run(rows []core.Row, mapping Mapping, md core.MasterData) Result {
	result := Result{}
	fold := cases.Fold()

	for column, categoryID := range mapping {
		category, ok := md.ByID(categoryID)
		if !ok || category.Type != core.CategoryList {
			continue
		}

		allowed := make(map[string]struct{}, len(category.Records))
		for _, rec := range category.Records {
			allowed[fold.String(rec)] = struct{}{}
		}

		for i, row := range rows {
			v, _ := row.Get(column)
			if _, ok := allowed[fold.String(strings.TrimSpace(v))]; !ok {
				result[column] = append(result[column], i)
			}
		}
	}
	return result
}

// Suggest ranks the records of a LIST category by similarity to value and
// returns at most limit of them. Exact (case-insensitive) matches come
// first, then records containing the value, then the closest by edit
// distance.
func Suggest(value string, category *core.MasterDataCategory, limit int) []string {
	if category == nil || len(category.Records) == 0 || limit <= 0 {
		return nil
	}
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(value))

	type scored struct {
		record string
		tier   int
		dist   int
	}

	ranked := make([]scored, 0, len(category.Records))
	matched := make(map[string]bool)
	for _, r := range fuzzy.RankFindFold(want, category.Records) {
		matched[r.Target] = true
	}

	for _, rec := range category.Records {
		got := fold.String(rec)
		s := scored{record: rec, dist: fuzzy.LevenshteinDistance(want, got)}
		switch {
		case got == want:
			s.tier = 0
		case want != "" && (strings.Contains(got, want) || strings.Contains(want, got)):
			s.tier = 1
		case matched[rec]:
			s.tier = 2
		default:
			s.tier = 3
		}
		ranked = append(ranked, s)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].tier != ranked[j].tier {
			return ranked[i].tier < ranked[j].tier
		}
		return ranked[i].dist < ranked[j].dist
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.record
	}
	return out
}
