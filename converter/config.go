package converter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for converter configuration.
type Flags struct {
	TargetVersion string
	Steps         string
}

// Config holds CLI flag values for converter configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewConverter] to create a [Converter].
type Config struct {
	Flags         Flags
	TargetVersion string
	Steps         bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		TargetVersion: "target-version",
		Steps:         "steps",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds converter flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.TargetVersion, c.Flags.TargetVersion,
		strconv.FormatFloat(LastVersion, 'f', -1, 64),
		"inventory format version to convert to")
	flags.BoolVar(&c.Steps, c.Flags.Steps, false,
		"record the document after every conversion stage")
}

// RegisterCompletions registers shell completions for converter flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	versions := make([]string, 0, len(registry))
	for _, p := range registry {
		versions = append(versions, strconv.FormatFloat(p.Version, 'f', -1, 64))
	}

	err := cmd.RegisterFlagCompletionFunc(c.Flags.TargetVersion,
		cobra.FixedCompletions(versions, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.TargetVersion, err)
	}

	return nil
}

// NewConverter creates a [Converter] using this [Config].
func (c *Config) NewConverter(logger *slog.Logger, opts ...Option) (*Converter, error) {
	all := []Option{WithLogger(logger), WithDebug(c.Steps)}

	if c.TargetVersion != "" {
		version, err := ParseVersion(c.TargetVersion)
		if err != nil {
			return nil, err
		}

		all = append(all, WithTargetVersion(version))
	}

	return New(append(all, opts...)...), nil
}
