package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

type TableConfig struct {
	EmotionWidth int
	NumberWidth  int
	PatternWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		EmotionWidth: 16,
		NumberWidth:  10,
		PatternWidth: 30,
	}
}

type TableReporter struct {
	writer io.Writer
	config TableConfig
}

func NewTableReporter(writer io.Writer) *TableReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &TableReporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type tableRow struct {
	Emotion string
	Mean    float64
	Share   float64
	StdDev  float64
	Latest  string
	Pattern string
}

type changeRow struct {
	Timestamp string
	Elapsed   float64
	Changes   domain.CategoryValues
}

type tableView struct {
	Samples     int
	Start       string
	End         string
	MostCommon  string
	LeastCommon string
	Rows        []tableRow
	Changes     []changeRow
	Note        string
}

func newTableView(report *domain.AnalysisReport) tableView {
	view := tableView{
		Samples:     report.Series.Len(),
		MostCommon:  orDash(report.Statistics.MostCommon),
		LeastCommon: orDash(report.Statistics.LeastCommon),
		Note:        report.Forecast.Note,
	}
	if n := report.Series.Len(); n > 0 {
		view.Start = report.Series.Samples[0].Timestamp.Format(time.RFC3339)
		view.End = report.Series.Samples[n-1].Timestamp.Format(time.RFC3339)
	}

	patterns := make(map[string]string, len(report.Patterns))
	for _, p := range report.Patterns {
		patterns[p.Category] = p.Pattern.String()
	}

	for i, category := range report.Series.Categories {
		row := tableRow{
			Emotion: category,
			Mean:    report.Statistics.Means[i].Value,
			Share:   report.Statistics.Shares[i].Value,
			StdDev:  report.Statistics.StdDevs[i].Value,
			Latest:  "-",
			Pattern: patterns[category],
		}
		if v, ok := report.Forecast.Values.Get(category); ok {
			row.Latest = fmt.Sprintf("%.2f", v)
		}
		view.Rows = append(view.Rows, row)
	}

	for _, t := range report.Temporal {
		view.Changes = append(view.Changes, changeRow{
			Timestamp: t.Timestamp.Format(time.RFC3339),
			Elapsed:   t.ElapsedSeconds,
			Changes:   t.Changes,
		})
	}
	return view
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (c *TableReporter) Handle(report *domain.AnalysisReport) error {
	funcMap := template.FuncMap{
		"formatRow": func(emotion string, mean, share, std, latest any, pattern string) string {
			return fmt.Sprintf("| %-*s | %*v | %*v | %*v | %*v | %-*s |",
				c.config.EmotionWidth, emotion,
				c.config.NumberWidth, number(mean),
				c.config.NumberWidth, number(share),
				c.config.NumberWidth, number(std),
				c.config.NumberWidth, latest,
				c.config.PatternWidth, pattern)
		},
		"separator": func() string {
			num := strings.Repeat("-", c.config.NumberWidth+2)
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.EmotionWidth+2),
				num, num, num, num,
				strings.Repeat("-", c.config.PatternWidth+2))
		},
	}

	tmpl := `
Emotion Analysis ({{.Samples}} samples)
{{if .Samples}}Period: {{.Start}} to {{.End}}
{{end}}Most common: {{.MostCommon}}
Least common: {{.LeastCommon}}

{{separator}}
{{formatRow "Emotion" "Mean" "Share %" "Std Dev" "Latest" "Pattern"}}
{{separator}}
{{range .Rows}}{{formatRow .Emotion .Mean .Share .StdDev .Latest .Pattern}}
{{end}}{{separator}}
{{if .Changes}}
=== Rate of change (points per second) ===
{{range .Changes}}{{.Timestamp}} ({{printf "%+.0f" .Elapsed}}s):{{range .Changes}} {{.Category}}={{printf "%.3f" .Value}}{{end}}
{{end}}{{end}}
{{.Note}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, newTableView(report))
}

// number prints floats with two decimals and leaves headers untouched.
func number(v any) any {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return v
}
