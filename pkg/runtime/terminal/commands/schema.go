package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/de-tools/emotion-atlas/pkg/models/api"
)

var schemaTargets = map[string]any{
	"request": &api.AnalysisRequest{},
	"report":  &api.AnalysisReport{},
	"message": &api.MessageRequest{},
}

func NewSchemaCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of an API document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, ok := schemaTargets[target]
			if !ok {
				return fmt.Errorf("unknown schema %q, expected one of request, report, message", target)
			}

			reflector := &jsonschema.Reflector{
				DoNotReference: true,
			}
			data, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode schema: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return err
		},
	}

	cmd.Flags().StringVar(&target, "type", "request", "Document type (request, report, message)")
	return cmd
}
