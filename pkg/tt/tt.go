// Package tt supports table-driven tests with little boilerplate.
//
// See the test file for this package for example usage.
package tt

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Table is a list of test cases.
type Table []*Case

// Case is one test case: arguments plus wanted return values. Build one with
// Args(...).Rets(...).
type Case struct {
	args []any
	rets []any
}

// Args starts a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets sets the wanted return values and returns the case itself. A wanted
// value may implement Matcher, in which case its Match method decides;
// otherwise values compare with cmp.Equal.
func (c *Case) Rets(rets ...any) *Case {
	c.rets = rets
	return c
}

// Matcher lets a wanted value decide for itself whether an actual return
// value matches.
type Matcher interface {
	Match(actual any) bool
}

// Any matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(any) bool { return true }

// Test calls fn with each case's arguments and checks the returns. The name
// is used in failure messages.
func Test(t *testing.T, name string, fn any, tests Table) {
	t.Helper()
	fv := reflect.ValueOf(fn)
	for _, test := range tests {
		rets := call(fv, test.args)
		if len(rets) != len(test.rets) {
			t.Errorf("%s(%s) returned %d values, want %d",
				name, fmtVals(test.args), len(rets), len(test.rets))
			continue
		}
		for i, want := range test.rets {
			if m, ok := want.(Matcher); ok {
				if !m.Match(rets[i]) {
					t.Errorf("%s(%s) ret %d = %v, want match", name, fmtVals(test.args), i, rets[i])
				}
			} else if !cmp.Equal(want, rets[i], cmpOpts...) {
				t.Errorf("%s(%s) ret %d (-want +got):\n%s",
					name, fmtVals(test.args), i, cmp.Diff(want, rets[i], cmpOpts...))
			}
		}
	}
}

var cmpOpts = []cmp.Option{cmp.Exporter(func(reflect.Type) bool { return true })}

func call(fv reflect.Value, args []any) []any {
	avs := make([]reflect.Value, len(args))
	ft := fv.Type()
	for i, arg := range args {
		if arg == nil {
			avs[i] = reflect.Zero(paramType(ft, i))
		} else {
			avs[i] = reflect.ValueOf(arg)
		}
	}
	rvs := fv.Call(avs)
	rets := make([]any, len(rvs))
	for i, rv := range rvs {
		rets[i] = rv.Interface()
	}
	return rets
}

// paramType returns the type of the i-th argument, unrolling the variadic
// parameter if there is one.
func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

func fmtVals(vals []any) string {
	ss := make([]string, len(vals))
	for i, v := range vals {
		ss[i] = fmt.Sprintf("%v", v)
	}
	return strings.Join(ss, ", ")
}
