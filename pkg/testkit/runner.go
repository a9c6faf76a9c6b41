package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// Factory builds a fresh handler. Every scenario gets its own, so flows
// never see each other's data.
type Factory func(t *testing.T) http.Handler

// Run executes the scenario in path against a handler from newHandler.
func Run(t *testing.T, newHandler Factory, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	require.NoError(t, err)

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, newHandler(t), s)
	})
}

// RunDir runs every scenario in dir as a subtest. Files that fail to parse
// are reported as failures.
func RunDir(t *testing.T, newHandler Factory, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, newHandler(t), s)
		})
	}
}

func runScenario(t *testing.T, h http.Handler, s *Scenario) {
	t.Helper()

	vars := make(map[string]string, len(s.Vars))
	for k, v := range s.Vars {
		vars[k] = v
	}

	for i := range s.Steps {
		st := &s.Steps[i]
		ok := t.Run(st.Name, func(t *testing.T) {
			runStep(t, h, s, st, vars)
		})
		if !ok {
			// later steps depend on this one's captures
			t.FailNow()
		}
	}
}

func runStep(t *testing.T, h http.Handler, s *Scenario, st *Step, vars map[string]string) {
	t.Helper()

	var body io.Reader
	switch {
	case st.BodyFile != "":
		data, err := os.ReadFile(s.path(st.BodyFile))
		require.NoError(t, err, "read body file")
		body = bytes.NewReader(expand(data, vars))
	case len(st.Body) > 0:
		body = bytes.NewReader(expand(st.Body, vars))
	}

	req := httptest.NewRequest(st.Method, string(expand([]byte(st.URL), vars)), body)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range st.Headers {
		req.Header.Set(k, string(expand([]byte(v), vars)))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	AssertStatusCode(t, st, rec.Code, rec.Body.Bytes())

	expected := []byte(st.Expect)
	if st.ExpectFile != "" {
		data, err := os.ReadFile(s.path(st.ExpectFile))
		require.NoError(t, err, "read expect file")
		expected = data
	}
	if len(expected) > 0 {
		AssertJSONSubset(t, st, expand(expected, vars), rec.Body.Bytes())
	}

	if len(st.Capture) > 0 {
		var doc any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), "response is not JSON: %s", rec.Body.String())
		for name, path := range st.Capture {
			v, found := Lookup(doc, path)
			require.True(t, found, "capture %q: path %q not in response %s", name, path, rec.Body.String())
			vars[name] = scalar(v)
		}
	}
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// expand replaces {{name}} with vars[name]. Unknown names stay as written
// so a typo shows up in the request rather than vanishing.
func expand(in []byte, vars map[string]string) []byte {
	return placeholder.ReplaceAllFunc(in, func(m []byte) []byte {
		name := string(placeholder.FindSubmatch(m)[1])
		if v, ok := vars[name]; ok {
			return []byte(v)
		}
		return m
	})
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case float64, bool:
		return fmt.Sprint(x)
	}
	b, _ := json.Marshal(v)
	return string(b)
}
