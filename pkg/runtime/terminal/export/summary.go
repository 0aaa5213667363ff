package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

// SummaryReporter outputs a short plain text digest of the report
type SummaryReporter struct {
	writer io.Writer
}

func NewSummaryReporter(writer io.Writer) *SummaryReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &SummaryReporter{writer: writer}
}

func (c *SummaryReporter) Handle(report *domain.AnalysisReport) error {
	tmpl := `Samples: {{.Samples}}
Most common: {{.MostCommon}}
Least common: {{.LeastCommon}}
{{range .Rows}}- {{.Emotion}}: {{.Pattern}}
{{end}}{{.Note}}
`
	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, newTableView(report))
}
