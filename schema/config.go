package schema

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for schema configuration, allowing callers to
// customize flag names while keeping sensible defaults.
type Flags struct {
	Path       string
	Extensions string
	Itemtypes  string
	Flexible   string
}

// Config holds CLI flag values for schema configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewBuilder] to create a [Builder].
type Config struct {
	Flags      Flags
	Path       string
	Extensions string
	Itemtypes  []string
	Flexible   bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Path:       "schema",
		Extensions: "extensions",
		Itemtypes:  "itemtype",
		Flexible:   "flexible",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds schema flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Path, c.Flags.Path, "",
		"schema file to use instead of the built-in inventory schema")
	flags.StringVar(&c.Extensions, c.Flags.Extensions, "",
		"YAML file with extra itemtypes, properties and sub_properties")
	flags.StringSliceVar(&c.Itemtypes, c.Flags.Itemtypes, nil,
		"extra allowed itemtype (repeatable)")
	flags.BoolVar(&c.Flexible, c.Flags.Flexible, false,
		"allow unknown properties inside content")
}

// RegisterCompletions registers shell completions for schema flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Path,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Path, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Extensions,
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Extensions, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Itemtypes,
		cobra.FixedCompletions(nil, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Itemtypes, err)
	}

	return nil
}

// NewBuilder creates a [Builder] using this [Config]. Options from the
// extensions file are applied before the flag values.
func (c *Config) NewBuilder(logger *slog.Logger) (*Builder, error) {
	opts := []Option{WithLogger(logger)}

	if c.Path != "" {
		opts = append(opts, WithPath(c.Path))
	}

	if c.Extensions != "" {
		ext, err := LoadExtensions(c.Extensions)
		if err != nil {
			return nil, err
		}

		extOpts, err := ext.Options()
		if err != nil {
			return nil, err
		}

		opts = append(opts, extOpts...)
	}

	if len(c.Itemtypes) > 0 {
		opts = append(opts, WithExtraItemtypes(c.Itemtypes...))
	}

	if c.Flexible {
		opts = append(opts, WithFlexible(true))
	}

	return NewBuilder(opts...), nil
}
