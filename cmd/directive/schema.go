package main

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"model-studio/internal/directive"
	"model-studio/internal/web"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [request|response]",
		Short:     "Print the JSON Schema of the selection file or the HTTP response",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"request", "response"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "request"
			if len(args) == 1 {
				kind = args[0]
			}

			schema, err := buildSchema(kind)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func buildSchema(kind string) (*jsonschema.Schema, error) {
	switch kind {
	case "request":
		r := &jsonschema.Reflector{
			ExpandedStruct: true,
			FieldNameTag:   "yaml",
			Mapper:         rawValueSchema,
		}
		s := r.Reflect(&directive.Selection{})
		s.Title = "Model Studio selection"
		s.Description = "Selections compiled into a generation directive. Values may be a string or a list of strings."
		return s, nil
	case "response":
		r := &jsonschema.Reflector{ExpandedStruct: true}
		s := r.Reflect(&web.GenerateResponse{})
		s.Title = "Model Studio generate-image response"
		return s, nil
	}
	return nil, fmt.Errorf("unknown schema %q (want request or response)", kind)
}

var rawValueType = reflect.TypeOf(directive.RawValue{})

func rawValueSchema(t reflect.Type) *jsonschema.Schema {
	if t != rawValueType {
		return nil
	}
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}
