package county

import (
	"fmt"
	"io"
	"sort"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
)

// Validation is the outcome of checking user-entered names against the
// official county names. It is advisory: callers decide what to do with it.
type Validation struct {
	Valid       []string          `json:"valid" yaml:"valid"`
	Invalid     []string          `json:"invalid" yaml:"invalid"`
	Official    []string          `json:"-" yaml:"-"`
	Suggestions map[string]string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// OK reports whether every entered name matched.
func (v *Validation) OK() bool { return len(v.Invalid) == 0 }

// Validate partitions names into valid and invalid entries. Matching is
// exact (case and spelling sensitive). Input order is preserved in both
// partitions. Each invalid name gets the closest official name as a
// suggestion when one is reasonably near.
func Validate(names, official []string) *Validation {
	known := make(map[string]struct{}, len(official))
	for _, n := range official {
		known[n] = struct{}{}
	}

	sorted := append([]string(nil), official...)
	sort.Strings(sorted)

	v := &Validation{Official: sorted}
	for _, n := range names {
		if _, ok := known[n]; ok {
			v.Valid = append(v.Valid, n)
			continue
		}
		v.Invalid = append(v.Invalid, n)
		if s, ok := suggest(n, sorted); ok {
			if v.Suggestions == nil {
				v.Suggestions = make(map[string]string)
			}
			v.Suggestions[n] = s
		}
	}
	return v
}

// Print writes the diagnostic listing for v.
func (v *Validation) Print(w io.Writer) {
	if v.OK() {
		fmt.Fprintln(w, "No incorrect county names entered.")
		return
	}

	fmt.Fprintln(w, "The following county names could not be found in the county boundary data:")
	for _, n := range v.Invalid {
		if s, ok := v.Suggestions[n]; ok {
			fmt.Fprintf(w, " - %s (did you mean %s?)\n", n, s)
		} else {
			fmt.Fprintf(w, " - %s\n", n)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the spelling and capitalization of the names above, correct profile.counties, and re-run.")
	fmt.Fprintln(w, "The official county names are listed below:")
	for _, n := range v.Official {
		fmt.Fprintf(w, " - %s\n", n)
	}
}

// suggest returns the official name closest to name, ignoring case. Names
// more than a third of their length away are not suggested.
func suggest(name string, official []string) (string, bool) {
	fold := cases.Fold()
	target := fold.String(name)

	best, bestDist := "", -1
	for _, o := range official {
		d := levenshtein.Distance(target, fold.String(o), nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = o, d
		}
	}
	if bestDist < 0 || bestDist > max(1, len([]rune(name))/3) {
		return "", false
	}
	return best, true
}
