// File: internal/reporting/json_reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/hotspot-cli/internal/aggregate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// nopWriteCloser wraps an io.Writer with a no-op Close, so stdout is
// never closed by the reporter.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// JSONReporter writes the summary as pretty-printed JSON. Frequency
// tables serialize as ordered entry arrays, so first-seen ordering
// survives the round trip.
type JSONReporter struct {
	writer io.WriteCloser
}

// NewJSONReporter creates a JSONReporter writing to the given path, or
// to stdout when the path is "" or "stdout".
func NewJSONReporter(outputPath string) (*JSONReporter, error) {
	if outputPath == "" || outputPath == "stdout" {
		return &JSONReporter{writer: &nopWriteCloser{os.Stdout}}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	return &JSONReporter{writer: f}, nil
}

// Write serializes the summary to the underlying writer.
func (r *JSONReporter) Write(summary *aggregate.Summary) error {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize summary to JSON: %w", err)
	}
	out = append(out, '\n')
	if _, err := r.writer.Write(out); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (r *JSONReporter) Close() error {
	return r.writer.Close()
}
