// Command invconv converts legacy inventory agent XML into canonical JSON
// and validates inventories against the inventory JSON Schema.
//
// # Usage
//
//	invconv convert [flags] [file.xml|-]
//	invconv validate [flags] [file.json|-]
//	invconv schema [flags]
//	invconv version
//
// Input is read from standard input when no file or "-" is given.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/invconv/converter"
	"go.jacobcolvin.com/invconv/log"
	"go.jacobcolvin.com/invconv/schema"
	"go.jacobcolvin.com/invconv/version"
)

var (
	// ErrNoInput is returned when no file is given and stdin is a terminal.
	ErrNoInput = errors.New("no input: pass a file or pipe data to stdin")
	// ErrReadInput is returned when the input cannot be read.
	ErrReadInput = errors.New("read input")
	// ErrWriteOutput is returned when the output cannot be written.
	ErrWriteOutput = errors.New("write output")
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	logCfg := log.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "invconv",
		Short: "Convert legacy inventory XML to canonical JSON",
		Long: `invconv converts FusionInventory and GLPI agent XML inventories into the
canonical JSON inventory format, and validates JSON inventories against the
inventory JSON Schema.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())

	err := logCfg.RegisterCompletions(rootCmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	newLogger := func(cmd *cobra.Command) (*slog.Logger, error) {
		return logCfg.NewLogger(cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		newConvertCmd(newLogger),
		newValidateCmd(newLogger),
		newSchemaCmd(newLogger),
		newVersionCmd(),
	)

	return rootCmd
}

type loggerFunc func(*cobra.Command) (*slog.Logger, error)

func newConvertCmd(newLogger loggerFunc) *cobra.Command {
	convCfg := converter.NewConfig()
	schemaCfg := schema.NewConfig()

	var (
		output   string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "convert [flags] [file.xml|-]",
		Short: "Convert a legacy XML inventory to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var (
				opts      []converter.Option
				validator *schema.Validator
			)

			if validate {
				builder, err := schemaCfg.NewBuilder(logger)
				if err != nil {
					return err
				}

				s, _, err := builder.Build()
				if err != nil {
					return err
				}

				validator, err = schema.Compile(s)
				if err != nil {
					return err
				}

				opts = append(opts, converter.WithSchema(s))
			}

			conv, err := convCfg.NewConverter(logger, opts...)
			if err != nil {
				return err
			}

			out, err := conv.Convert(data)

			for _, step := range conv.Steps() {
				b, encErr := json.Marshal(step.Document)
				if encErr != nil {
					return encErr
				}

				logger.Info("conversion step",
					slog.String("pass", step.Pass),
					slog.String("stage", step.Stage),
					slog.String("document", string(b)),
				)
			}

			if err != nil {
				return err
			}

			if validator != nil {
				err := validator.Validate(out)
				if err != nil {
					return err
				}
			}

			return writeOutput(cmd, output, append(out, '\n'))
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	flags.BoolVar(&validate, "validate", false, "validate the converted document against the schema")
	convCfg.RegisterFlags(flags)
	schemaCfg.RegisterFlags(flags)

	for _, register := range []func(*cobra.Command) error{
		convCfg.RegisterCompletions,
		schemaCfg.RegisterCompletions,
	} {
		err := register(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
		}
	}

	return cmd
}

func newValidateCmd(newLogger loggerFunc) *cobra.Command {
	schemaCfg := schema.NewConfig()

	cmd := &cobra.Command{
		Use:   "validate [flags] [file.json|-]",
		Short: "Validate a JSON inventory against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			builder, err := schemaCfg.NewBuilder(logger)
			if err != nil {
				return err
			}

			err = builder.Validate(data)
			if err != nil {
				return err
			}

			logger.Info("inventory is valid")

			return nil
		},
	}

	schemaCfg.RegisterFlags(cmd.Flags())

	err := schemaCfg.RegisterCompletions(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}

func newSchemaCmd(newLogger loggerFunc) *cobra.Command {
	schemaCfg := schema.NewConfig()

	var output string

	cmd := &cobra.Command{
		Use:   "schema [flags]",
		Short: "Print the inventory schema with extensions applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			builder, err := schemaCfg.NewBuilder(logger)
			if err != nil {
				return err
			}

			s, _, err := builder.Build()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrWriteOutput, err)
			}

			return writeOutput(cmd, output, append(out, '\n'))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	schemaCfg.RegisterFlags(cmd.Flags())

	err := schemaCfg.RegisterCompletions(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return cmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			w := cmd.OutOrStdout()

			if asJSON {
				out, err := json.Marshal(struct {
					version.Info

					Format string `json:"format"`
				}{Info: info, Format: schema.Version})
				if err != nil {
					return fmt.Errorf("%w: %w", ErrWriteOutput, err)
				}

				_, err = fmt.Fprintf(w, "%s\n", out)

				return err
			}

			_, err := fmt.Fprintf(w, "invconv %s\ninventory format %s\n", info, schema.Version)

			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")

	return cmd
}

// readInput reads the named file, or stdin when args is empty or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		return data, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, ErrNoInput
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
	}

	return data, nil
}

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		return nil
	}

	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}
