package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError describes an unmet query expectation.
type AssertionError struct {
	Query    string
	Expected string
	Actual   string
	Fragment string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Query)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Fragment != "" {
		fmt.Fprintf(&buf, "\nFragment:\n%s\n", e.Fragment)
	}
	return buf.String()
}

// checkQuery compares a query result with its expectation.
func checkQuery(q Query, got QueryResult) error {
	if q.Error != "" {
		if got.Error == q.Error {
			return nil
		}
		actual := fmt.Sprintf("matches %v", got.Matches)
		if got.Error != "" {
			actual = "error " + got.Error
		}
		return &AssertionError{Query: q.Name, Expected: "error " + q.Error, Actual: actual, Fragment: got.Fragment}
	}

	if got.Error != "" {
		return &AssertionError{Query: q.Name, Expected: fmt.Sprintf("matches %v", expected(q)), Actual: "error " + got.Error, Fragment: got.Fragment}
	}
	if !slices.Equal(expected(q), got.Matches) {
		return &AssertionError{
			Query:    q.Name,
			Expected: fmt.Sprintf("matches %v", expected(q)),
			Actual:   fmt.Sprintf("matches %v", got.Matches),
			Fragment: got.Fragment,
		}
	}
	return nil
}

func expected(q Query) []string {
	if q.Expect == nil {
		return []string{}
	}
	return q.Expect
}
