package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Victor-armando18/payload-mapper/pkg/engine"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("invalid")

type vocabularyFlags struct {
	itemsPath string
	varsPath  string
}

func (f *vocabularyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.itemsPath, "invoicing-items", "", "JSON file with the declared invoicing items")
	cmd.Flags().StringVar(&f.varsPath, "metadata-variables", "", "JSON file with the declared metadata variables")
}

func (f *vocabularyFlags) load() (engine.Vocabulary, error) {
	vocab, err := engine.LoadVocabulary(f.itemsPath, f.varsPath)
	if err != nil {
		return engine.Vocabulary{}, err
	}
	return *vocab, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "payload-mapper",
		Short:         "Generate and validate order payloads from mapping configurations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newGenerateCmd(),
		newValidateCmd(),
		newValidateExpressionCmd(),
		newExtractMetadataCmd(),
		newFormatCmd(),
	)
	return root
}

func newGenerateCmd() *cobra.Command {
	var configPath, recordPath, country string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the payload of a record for one country",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := engine.LoadConfigFile(configPath)
			if err != nil {
				return err
			}
			record, err := engine.LoadRecordFile(recordPath)
			if err != nil {
				return err
			}
			res := engine.Generate(cfg, record, country)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("%w: %d field(s) failed", errInvalid, len(res.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mapping configuration (YAML)")
	cmd.Flags().StringVarP(&recordPath, "record", "r", "", "order record (JSON)")
	cmd.Flags().StringVar(&country, "country", "", "country code to generate for")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("record")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var configPath string
	var vocab vocabularyFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Statically validate a mapping configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := engine.LoadConfigFile(configPath)
			if err != nil {
				return err
			}
			v, err := vocab.load()
			if err != nil {
				return err
			}
			diags := engine.ValidateConfiguration(cfg, v)
			summary := engine.Summarize(diags)
			out := struct {
				Summary     engine.ValidationSummary `json:"summary"`
				Diagnostics []engine.ValidationError `json:"diagnostics"`
			}{summary, diags}
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if !summary.Valid {
				return fmt.Errorf("%w: %d error(s)", errInvalid, summary.ErrorCount)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mapping configuration (YAML)")
	vocab.register(cmd)
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newValidateExpressionCmd() *cobra.Command {
	var vocab vocabularyFlags
	cmd := &cobra.Command{
		Use:   "validate-expression EXPRESSION",
		Short: "Check the syntax and references of a single expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vocab.load()
			if err != nil {
				return err
			}
			res := engine.ValidateExpression(args[0], v)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("%w expression", errInvalid)
			}
			return nil
		},
	}
	vocab.register(cmd)
	return cmd
}

func newExtractMetadataCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "extract-metadata",
		Short: "List the variables a configuration reads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := engine.LoadConfigFile(configPath)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.ExtractMetadata(cfg))
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mapping configuration (YAML)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newFormatCmd() *cobra.Command {
	var configPath string
	var write bool
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Rewrite a configuration in canonical form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := engine.LoadConfigFile(configPath)
			if err != nil {
				return err
			}
			out, err := engine.SerializeConfig(cfg)
			if err != nil {
				return err
			}
			if write {
				return os.WriteFile(configPath, out, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "mapping configuration (YAML)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "overwrite the file instead of printing")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
