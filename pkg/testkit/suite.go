package testkit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SuiteEntry is one group in a suite file: a directory of scenarios and the
// fixture they run against by default.
type SuiteEntry struct {
	ServiceName string `json:"serviceName"`
	// FilePath is resolved relative to the suite file.
	FilePath string `json:"filePath"`
	Fixture  string `json:"fixture"`
}

// RunSuite runs every group listed in the suite file at suitePath. A
// scenario's own "fixture" overrides its group's; each picks its handler
// factory from fixtures by that name.
func RunSuite(t *testing.T, suitePath string, fixtures map[string]Factory) {
	t.Helper()

	abs, err := filepath.Abs(suitePath)
	require.NoError(t, err)
	data, err := os.ReadFile(abs)
	require.NoError(t, err, "read suite file")

	var entries []SuiteEntry
	require.NoError(t, json.Unmarshal(data, &entries), "parse suite file %q", abs)

	base := filepath.Dir(abs)
	for _, entry := range entries {
		t.Run(entry.ServiceName, func(t *testing.T) {
			scenarios, errs := LoadAllFromDir(filepath.Join(base, entry.FilePath))
			for _, err := range errs {
				t.Error(err)
			}
			for _, s := range scenarios {
				name := s.Fixture
				if name == "" {
					name = entry.Fixture
				}
				factory, ok := fixtures[name]
				if !ok {
					t.Errorf("scenario %q: unknown fixture %q", s.Name, name)
					continue
				}
				t.Run(s.Name, func(t *testing.T) {
					runScenario(t, factory(t), s)
				})
			}
		})
	}
}
