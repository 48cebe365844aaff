// File: internal/reporting/reporter.go
package reporting

import (
	"fmt"

	"github.com/xkilldash9x/hotspot-cli/internal/aggregate"
)

// Reporter defines the interface for writing an aggregated summary to
// an output artifact.
type Reporter interface {
	// Write renders the summary. It must either produce a complete
	// artifact or fail without leaving one behind.
	Write(summary *aggregate.Summary) error
	// Close releases any underlying resources.
	Close() error
}

// New creates a reporter for the given format. The xlsx format needs a
// real file path; json accepts "" or "stdout" to print to stdout.
func New(format, outputPath string) (Reporter, error) {
	switch format {
	case "xlsx":
		if outputPath == "" || outputPath == "stdout" {
			return nil, fmt.Errorf("xlsx reports require an output file path")
		}
		return NewExcelReporter(outputPath), nil
	case "json":
		return NewJSONReporter(outputPath)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
