// Package testkit runs JSON-described API flows against an http.Handler.
//
// A scenario is a named list of steps. Each step fires one request and
// checks the status and, optionally, a subset of the response body. Values
// captured from one response are substituted into later steps as {{name}}:
//
//	{
//	  "name": "customer checks out",
//	  "steps": [
//	    {"name": "login", "method": "POST", "url": "/api/auth/login",
//	     "body": {"login": "jane", "password": "secret123"},
//	     "expectedCode": 200, "capture": {"token": "data.token"}},
//	    {"name": "me", "url": "/api/auth/me",
//	     "headers": {"Authorization": "Bearer {{token}}"},
//	     "expectedCode": 200, "expect": {"data": {"username": "jane"}}}
//	  ]
//	}
//
// Scenario files live in testdata/ next to the test that runs them:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, newHandler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one API flow loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Fixture names the handler factory the scenario runs against, for
	// suites that register more than one.
	Fixture string `json:"fixture"`
	// Vars seed the substitution table before the first step.
	Vars  map[string]string `json:"vars"`
	Steps []Step            `json:"steps"`

	dir string
}

// Step is one request and its expectations.
type Step struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	// Body is sent as-is after substitution; BodyFile is read relative to
	// the scenario file instead.
	Body     json.RawMessage `json:"body"`
	BodyFile string          `json:"bodyFile"`

	ExpectedCode int `json:"expectedCode"`
	// Expect is matched as a subset of the response: objects may carry
	// extra keys, arrays must have the same length. "<any>" matches any
	// non-null value and "<uuid>" any UUID string.
	Expect     json.RawMessage `json:"expect"`
	ExpectFile string          `json:"expectFile"`

	// Capture maps a variable name to a dotted path in the response,
	// e.g. "data.items.0.id".
	Capture map[string]string `json:"capture"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if len(st.Body) > 0 && st.BodyFile != "" {
			return fmt.Errorf("steps[%d]: body and bodyFile are exclusive", i)
		}
		if len(st.Expect) > 0 && st.ExpectFile != "" {
			return fmt.Errorf("steps[%d]: expect and expectFile are exclusive", i)
		}
		if st.Method == "" {
			st.Method = "GET"
		}
		st.Method = strings.ToUpper(st.Method)
		if st.Name == "" {
			st.Name = fmt.Sprintf("%02d %s %s", i+1, st.Method, st.URL)
		}
	}
	return nil
}

// path resolves a file named in a step relative to the scenario file.
func (s *Scenario) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// LoadAllFromDir loads every *.json file in dir as a Scenario, skipping
// files whose names end in _req.json or _res.json. Files that fail to parse
// are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		if isPayload(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}

func isPayload(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "_req.json") || strings.HasSuffix(base, "_res.json")
}
