package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"smart-locator/internal/bootstrap"
	"smart-locator/internal/config"
	"smart-locator/internal/entity"
	"smart-locator/internal/locator"
	"smart-locator/internal/usecase"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func newGenerateCmd() *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate locators from a stored element snapshot",
		Long: `Reads an element snapshot (JSON or YAML, same field names as the
capture output) and prints the scored locator result without a browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != outputJSON && output != outputYAML {
				return fmt.Errorf("unsupported output format %q (json or yaml)", output)
			}

			meta, err := readSnapshot(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			conf, err := config.GetConfig()
			if err != nil {
				return err
			}

			logger, err := bootstrap.NewLogger(conf)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			svc := usecase.NewLocatorService(usecase.LocatorServiceParams{
				Logger: logger,
				Engine: locator.NewEngine(),
			})

			res, err := svc.Generate(cmd.Context(), *meta)
			if err != nil {
				logger.Error("Generation failed", zap.Error(err))

				return err
			}

			return writeResult(cmd.OutOrStdout(), res, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "snapshot file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")

	return cmd
}

// readSnapshot decodes a JSON or YAML snapshot from path, or from stdin when
// path is "-".
func readSnapshot(path string, stdin io.Reader) (*entity.ElementMetadata, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var meta entity.ElementMetadata

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &meta)
	} else {
		err = yaml.Unmarshal(data, &meta)
	}

	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &meta, nil
}

func writeResult(w io.Writer, res *entity.LocatorResult, format string) error {
	if format == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}
