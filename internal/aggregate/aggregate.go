// File: internal/aggregate/aggregate.go
package aggregate

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hotspot-cli/internal/sonar"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Substitution sentinels for absent optional fields. These strings are
// part of the observable contract; downstream consumers key on them.
const (
	SeverityFallback = "N/A"
	StatusFallback   = "UNKNOWN"
	CategoryFallback = "UNCATEGORIZED"
)

// ErrMissingField reports a hotspot that lacks one of its required
// fields. It aborts the whole aggregation; there is no per-record
// recovery.
var ErrMissingField = errors.New("hotspot missing required field")

// Record is the normalized, display-ready projection of one hotspot.
type Record struct {
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Component   string `json:"component"`
	Line        int    `json:"line"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Category    string `json:"category"`
}

// Summary is the full output of one aggregation pass: the record
// projections in arrival order plus one frequency table per dimension.
// Each table's counts sum to len(Records).
type Summary struct {
	Records  []Record        `json:"records"`
	Severity *FrequencyTable `json:"severity_counts"`
	Status   *FrequencyTable `json:"status_counts"`
	Category *FrequencyTable `json:"category_counts"`
}

// Aggregator turns a fetched result set into a Summary.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an Aggregator. A nil logger is replaced with a
// no-op one.
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger.Named("aggregator")}
}

// Process consumes the result set in a single traversal, producing the
// record projections and the three frequency tables. The value counted
// in each table is exactly the value emitted in the projection, so a
// hotspot with no status increments the "UNKNOWN" bucket rather than
// an absent one.
func (a *Aggregator) Process(rs *sonar.ResultSet) (*Summary, error) {
	// Component entries may repeat across pages; the lookup is a single
	// map populated by sequential overwrite, so the last write for a
	// key wins.
	components := make(map[string]sonar.Component, len(rs.Components))
	for _, c := range rs.Components {
		components[c.Key] = c
	}

	summary := &Summary{
		Records:  make([]Record, 0, len(rs.Hotspots)),
		Severity: NewFrequencyTable(),
		Status:   NewFrequencyTable(),
		Category: NewFrequencyTable(),
	}

	for i, h := range rs.Hotspots {
		if err := validate(i, h); err != nil {
			return nil, err
		}

		// Resolve the component reference to its display name, keeping
		// the raw key when the server never sent the component.
		name := h.Component
		if c, ok := components[h.Component]; ok && c.LongName != "" {
			name = c.LongName
		}

		severity := orFallback(h.VulnerabilityProbability, SeverityFallback)
		status := orFallback(h.Status, StatusFallback)
		category := orFallback(h.SecurityCategory, CategoryFallback)

		summary.Records = append(summary.Records, Record{
			Rule:        h.RuleKey,
			Severity:    severity,
			Component:   name,
			Line:        *h.Line,
			Description: h.Message,
			Status:      status,
			Category:    category,
		})

		summary.Severity.Inc(severity)
		summary.Status.Inc(status)
		summary.Category.Inc(category)
	}

	a.logger.Info("Aggregation complete",
		zap.Int("records", len(summary.Records)),
		zap.Int("severities", summary.Severity.Len()),
		zap.Int("statuses", summary.Status.Len()),
		zap.Int("categories", summary.Category.Len()),
	)
	return summary, nil
}

// validate checks the fields the projection cannot do without.
func validate(i int, h sonar.Hotspot) error {
	switch {
	case h.RuleKey == "":
		return fmt.Errorf("hotspot %d: %w: ruleKey", i, ErrMissingField)
	case h.Component == "":
		return fmt.Errorf("hotspot %d: %w: component", i, ErrMissingField)
	case h.Line == nil:
		return fmt.Errorf("hotspot %d: %w: line", i, ErrMissingField)
	case h.Message == "":
		return fmt.Errorf("hotspot %d: %w: message", i, ErrMissingField)
	}
	return nil
}

func orFallback(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
