package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/emotion-atlas/pkg/adapters"
	"github.com/de-tools/emotion-atlas/pkg/models/api"
	"github.com/de-tools/emotion-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
	"github.com/de-tools/emotion-atlas/pkg/validation"
)

type AnalyzeCmd struct {
	input      string
	format     string
	vocabulary string
	categories []string
	registry   export.Registry
	stdin      io.Reader
}

func NewAnalyzeCmd(registry export.Registry, stdin io.Reader) *cobra.Command {
	ac := &AnalyzeCmd{registry: registry, stdin: stdin}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an emotion history document",
		Long: `Reads either an object with an "emotion_history_20s" array or a bare
array of {"timestamp", "emotion_percentage"} records.`,
		RunE: ac.run,
	}

	cmd.Flags().StringVarP(&ac.input, "input", "i", "-", "Input file, - for stdin")
	cmd.Flags().StringVarP(&ac.format, "format", "f", "json",
		fmt.Sprintf("Output format (%s)", strings.Join(registry.ListFormats(), ", ")))
	cmd.Flags().StringVar(&ac.vocabulary, "vocabulary", string(analysis.VocabularyFirstSample),
		"Category vocabulary policy (first_sample, union)")
	cmd.Flags().StringSliceVar(&ac.categories, "categories", nil,
		"Fixed category list, overrides --vocabulary")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	policy, err := analysis.ParseVocabularyPolicy(ac.vocabulary)
	if err != nil {
		return err
	}

	reporter, err := ac.registry.Create(ac.format, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("unsupported output format %q. Supported formats: %v", ac.format, ac.registry.ListFormats())
	}

	data, err := ac.read()
	if err != nil {
		return err
	}

	records, err := decodeHistory(data)
	if err != nil {
		return err
	}
	logger.Debug().Int("records", len(records)).Str("input", ac.input).Msg("emotion history loaded")

	analyzer := analysis.NewAnalyzer(analysis.Options{Vocabulary: policy, Categories: ac.categories})
	report, err := analyzer.Analyze(ctx, adapters.MapEmotionRecordsApiToDomain(records))
	if err != nil {
		return fmt.Errorf("failed to analyze emotion history: %w", err)
	}

	return reporter.Handle(report)
}

func (ac *AnalyzeCmd) read() ([]byte, error) {
	if ac.input == "-" {
		data, err := io.ReadAll(ac.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(ac.input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

func decodeHistory(data []byte) ([]api.EmotionRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []api.EmotionRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse emotion history: %w", err)
		}
		if err := validation.ValidateStruct(api.AnalysisRequest{EmotionHistory: records}); err != nil {
			return nil, err
		}
		return records, nil
	}

	var req api.AnalysisRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, fmt.Errorf("failed to parse emotion history: %w", err)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	return req.EmotionHistory, nil
}
