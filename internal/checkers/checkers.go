// Package checkers provides quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that decodes the JSON document under test
// (a string or []byte), evaluates path against it and compares the result to
// the expected value with qt.DeepEquals. JSON numbers decode as float64.
//
//	c.Assert(text, checkers.JSONPathEquals("$.user"), "alice")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{
		argNames: []string{"got", "want"},
		path:     path,
	}
}

type jsonPathChecker struct {
	argNames []string
	path     string
}

// ArgNames implements qt.Checker.
func (c *jsonPathChecker) ArgNames() []string { return c.argNames }

// Check implements qt.Checker.
func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("expected string or []byte, got %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}

	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		return fmt.Errorf("cannot evaluate %s: %w", c.path, err)
	}

	note("path", c.path)
	return qt.DeepEquals.Check(value, args, note)
}
