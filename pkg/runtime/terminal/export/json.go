package export

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
)

// JSONReporter writes the report document exactly as the HTTP API returns it.
type JSONReporter struct {
	writer io.Writer
}

func NewJSONReporter(writer io.Writer) *JSONReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &JSONReporter{writer: writer}
}

func (r *JSONReporter) Handle(report *domain.AnalysisReport) error {
	data, err := analysis.MarshalReport(report)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.writer, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
