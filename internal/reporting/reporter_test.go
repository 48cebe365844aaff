// File: internal/reporting/reporter_test.go
package reporting_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/hotspot-cli/internal/aggregate"
	"github.com/xkilldash9x/hotspot-cli/internal/reporting"
	"github.com/xkilldash9x/hotspot-cli/internal/sonar"
)

// buildSummary aggregates a small fixed result set for reporter tests.
func buildSummary(t *testing.T) *aggregate.Summary {
	t.Helper()
	line1, line2, line3 := 15, 42, 7
	rs := &sonar.ResultSet{
		Hotspots: []sonar.Hotspot{
			{
				RuleKey:                  "go:S2068",
				VulnerabilityProbability: "HIGH",
				Status:                   "TO_REVIEW",
				SecurityCategory:         "auth",
				Component:                "pf:internal/db/db.go",
				Line:                     &line1,
				Message:                  "Review this hardcoded credential.",
			},
			{
				RuleKey:                  "go:S4830",
				VulnerabilityProbability: "LOW",
				Status:                   "TO_REVIEW",
				SecurityCategory:         "ssl",
				Component:                "pf:internal/tls.go",
				Line:                     &line2,
				Message:                  "Server certificates should be verified.",
			},
			{
				RuleKey:   "go:S1313",
				Component: "pf:cmd/main.go",
				Line:      &line3,
				Message:   "Hardcoded IP address.",
			},
		},
		Components: []sonar.Component{
			{Key: "pf:internal/db/db.go", LongName: "internal/db/db.go"},
			{Key: "pf:internal/tls.go", LongName: "internal/tls.go"},
		},
	}

	summary, err := aggregate.NewAggregator(nil).Process(rs)
	require.NoError(t, err)
	return summary
}

func TestNew_XLSXRequiresFilePath(t *testing.T) {
	for _, path := range []string{"", "stdout"} {
		r, err := reporting.New("xlsx", path)
		assert.Error(t, err)
		assert.Nil(t, r)
	}
}

func TestNew_XLSXFile(t *testing.T) {
	r, err := reporting.New("xlsx", filepath.Join(t.TempDir(), "out.xlsx"))
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.NoError(t, r.Close())
}

func TestNew_JSONStdout(t *testing.T) {
	r, err := reporting.New("json", "stdout")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.NoError(t, r.Close())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	r, err := reporting.New("sarif", "out.sarif")
	assert.Error(t, err)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "unsupported output format: sarif")
}
