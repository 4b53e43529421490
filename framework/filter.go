package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter is a Filter that applies both lists. As with "go test -run", a MustMatch pattern is
// split on slashes and each element is matched against the corresponding level of the test ID,
// so that a parent test runs whenever some of its subtests might be selected.
func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatchPath(id.Path)) &&
		!r.MustNotMatch.AnyMatch(id.String())
}

type RegexList struct {
	patterns []*regexp.Regexp
	levels   [][]*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	var levels []*regexp.Regexp
	for _, part := range strings.Split(value, "/") {
		lrx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		levels = append(levels, lrx)
	}
	r.patterns = append(r.patterns, rx)
	r.levels = append(r.levels, levels)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyMatchPath is true if, for any pattern, each slash-separated element of the pattern matches
// the corresponding element of the path. Elements beyond the end of the shorter one are ignored.
func (r RegexList) AnyMatchPath(path []string) bool {
	for _, levels := range r.levels {
		matched := true
		for i := 0; i < len(levels) && i < len(path); i++ {
			if !levels[i].MatchString(path[i]) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// PrintFilterDescription tells the user which tests will be skipped because of -run or -skip.
func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(out)
}
