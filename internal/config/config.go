// Package config loads the driver settings for proxy-generator.
//
// Settings come from proxygen.yaml (or an explicit file), PROXYGEN_* environment
// variables and command-line flags, in increasing order of precedence.
//
//	language: csharp
//	use_full_type_names: false
//	manifest: proxies.yaml
//	output: proxy-plan.yaml
//	packages: [./store/...]
//	namespace_remap:
//	  - from: Shop
//	    to: Client.Shop
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"proxy-generator/internal/plan"
)

const (
	KeyLanguage         = "language"
	KeyUseFullTypeNames = "use_full_type_names"
	KeyNamespaceRemap   = "namespace_remap"
	KeyManifest         = "manifest"
	KeyOutput           = "output"
	KeyPackages         = "packages"

	EnvPrefix     = "PROXYGEN"
	DefaultName   = "proxygen"
	DefaultOutput = "proxy-plan.yaml"
)

// Languages lists the supported target languages.
var Languages = []string{"csharp", "visualbasic"}

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrInvalidRemap    = errors.New("invalid namespace remap")
)

// Config holds the driver settings.
type Config struct {
	Language         string      `mapstructure:"language"`
	UseFullTypeNames bool        `mapstructure:"use_full_type_names"`
	NamespaceRemap   []RemapRule `mapstructure:"namespace_remap"`
	Manifest         string      `mapstructure:"manifest"`
	Output           string      `mapstructure:"output"`
	Packages         []string    `mapstructure:"packages"`
}

// RemapRule maps a server namespace onto a client namespace. Rules are a list
// rather than a map because viper folds map keys to lower case.
type RemapRule struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// flagKeys maps config keys to the flag names that override them.
var flagKeys = map[string]string{
	KeyLanguage:         "language",
	KeyUseFullTypeNames: "full-names",
	KeyManifest:         "manifest",
	KeyOutput:           "output",
	KeyPackages:         "packages",
}

// Load reads the configuration. An empty path searches the working directory
// for proxygen.yaml and tolerates its absence; an explicit path must exist.
// Flags present in flags override file and environment values.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeyLanguage, "")
	v.SetDefault(KeyUseFullTypeNames, false)
	v.SetDefault(KeyManifest, "")
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyPackages, []string{})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}

			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the language and the remap rules. An empty language is
// accepted here and rejected by the planner.
func (c *Config) Validate() error {
	var errs []error

	if c.Language != "" && !slices.Contains(Languages, c.Language) {
		errs = append(errs, fmt.Errorf("%w %q (expected one of %s)",
			ErrUnknownLanguage, c.Language, strings.Join(Languages, ", ")))
	}

	seen := make(map[string]bool, len(c.NamespaceRemap))

	for i, r := range c.NamespaceRemap {
		switch {
		case r.From == "" || r.To == "":
			errs = append(errs, fmt.Errorf("%w: rule %d needs both from and to", ErrInvalidRemap, i+1))
		case seen[r.From]:
			errs = append(errs, fmt.Errorf("%w: namespace %s is remapped twice", ErrInvalidRemap, r.From))
		}

		seen[r.From] = true
	}

	return errors.Join(errs...)
}

// Remap returns the namespace remap rules as a lookup table.
func (c *Config) Remap() map[string]string {
	if len(c.NamespaceRemap) == 0 {
		return nil
	}

	out := make(map[string]string, len(c.NamespaceRemap))
	for _, r := range c.NamespaceRemap {
		out[r.From] = r.To
	}

	return out
}

// PlanOptions converts the settings into planner options.
func (c *Config) PlanOptions() plan.Options {
	return plan.Options{
		Language:         c.Language,
		UseFullTypeNames: c.UseFullTypeNames,
		NamespaceRemap:   c.Remap(),
	}
}
