package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "proxygen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
language: visualbasic
use_full_type_names: true
manifest: shop.yaml
packages: [./store, ./warehouse]
namespace_remap:
  - from: Shop
    to: Client.Shop
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "visualbasic", cfg.Language)
	assert.True(t, cfg.UseFullTypeNames)
	assert.Equal(t, "shop.yaml", cfg.Manifest)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, []string{"./store", "./warehouse"}, cfg.Packages)
	assert.Equal(t, map[string]string{"Shop": "Client.Shop"}, cfg.Remap())

	opts := cfg.PlanOptions()
	assert.Equal(t, "visualbasic", opts.Language)
	assert.True(t, opts.UseFullTypeNames)
	assert.Equal(t, "Client.Shop", opts.NamespaceRemap["Shop"])
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Language)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Nil(t, cfg.Remap())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "language: csharp\n")
	t.Setenv("PROXYGEN_LANGUAGE", "visualbasic")
	t.Setenv("PROXYGEN_OUTPUT", "out.yaml")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "visualbasic", cfg.Language)
	assert.Equal(t, "out.yaml", cfg.Output)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "language: csharp\noutput: file.yaml\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("language", "", "")
	flags.String("output", "", "")
	flags.Bool("full-names", false, "")
	require.NoError(t, flags.Parse([]string{"--language", "visualbasic", "--full-names"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "visualbasic", cfg.Language)
	assert.True(t, cfg.UseFullTypeNames)
	// Unset flags fall back to the file
	assert.Equal(t, "file.yaml", cfg.Output)
}

func TestLoad_InvalidLanguage(t *testing.T) {
	path := writeConfig(t, "language: cobol\n")

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "empty language is left to the planner", cfg: Config{}},
		{name: "csharp", cfg: Config{Language: "csharp"}},
		{name: "unknown language", cfg: Config{Language: "fsharp"}, wantErr: ErrUnknownLanguage},
		{
			name:    "incomplete remap",
			cfg:     Config{NamespaceRemap: []RemapRule{{From: "Shop"}}},
			wantErr: ErrInvalidRemap,
		},
		{
			name: "duplicate remap",
			cfg: Config{NamespaceRemap: []RemapRule{
				{From: "Shop", To: "A"},
				{From: "Shop", To: "B"},
			}},
			wantErr: ErrInvalidRemap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
