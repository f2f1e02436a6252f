package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"model-studio/internal/directive"
	"model-studio/internal/studio"
)

type compileOptions struct {
	file      string
	strict    bool
	mode      string
	secondary bool
	asJSON    bool
}

type compileOutput struct {
	PromptUsed string       `json:"promptUsed"`
	Debug      studio.Debug `json:"debug"`
}

func newCompileCmd(a *app) *cobra.Command {
	var opts compileOptions

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a selection file into a directive",
		Long: `Reads a YAML (or JSON) selection file and prints the directive that would be
sent to the image model. Use "-" to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "selection file (YAML or JSON)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "compile in STRICT mode")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "override generationMode (POSE_BASED or MODEL_REFERENCE_BASED)")
	cmd.Flags().BoolVar(&opts.secondary, "secondary", false, "assume a secondary reference image is attached")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print promptUsed and debug as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runCompile(cmd *cobra.Command, a *app, opts compileOptions) error {
	data, err := readInput(cmd.InOrStdin(), opts.file)
	if err != nil {
		return err
	}

	sel, err := directive.ParseSelectionYAML(data)
	if err != nil {
		return err
	}
	raw := sel.Raw()
	if opts.mode != "" {
		raw.Set(directive.KeyGenerationMode, opts.mode)
	}

	mode := directive.ParseMode(raw.First(directive.KeyGenerationMode))
	if mode.RequiresSecondary() && !opts.secondary {
		return fmt.Errorf("%w (pass --secondary)", studio.ErrMissingSecondaryImage)
	}

	assembler := directive.NewAssembler(directive.Options{Strictness: directive.StrictnessFromBool(opts.strict)})
	res := assembler.Compile(raw, mode, opts.secondary)

	a.logger.Debug("directive compiled",
		zap.String("file", opts.file),
		zap.String("mode", string(res.Mode)),
		zap.String("strictness", string(res.Strictness)),
		zap.Strings("changed_fields", res.ChangedFieldNames()),
		zap.Strings("sections", res.Document.Names()),
	)

	out := cmd.OutOrStdout()
	if !opts.asJSON {
		_, err := fmt.Fprintln(out, res.Prompt())
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(compileOutput{
		PromptUsed: res.Prompt(),
		Debug:      studio.NewDebug(res),
	})
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("no selection file given")
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selection file: %w", err)
	}
	return data, nil
}
