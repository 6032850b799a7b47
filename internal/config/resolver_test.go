package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestResolveConfig_Defaults(t *testing.T) {
	resolved, err := ResolveConfig(ResolveOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)

	assert.Equal(t, ResolvedValue{Value: DefaultOutputDir, Source: SourceDefault, From: "built-in default"}, resolved.OutputDir)
	assert.Equal(t, SourceDefault, resolved.LogLevel.Source)

	lvl, err := resolved.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	on, err := resolved.PreviewEnabled()
	require.NoError(t, err)
	assert.False(t, on)
}

func TestResolveConfig_Precedence_ConfigEnvCLI(t *testing.T) {
	cfgPath := writeConfig(t, `output_dir: from-config
log_level: warn
preview: true
`)
	t.Setenv("RIDER_OUTPUT_DIR", "from-env")
	t.Setenv("RIDER_LOG_LEVEL", "error")

	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath:  cfgPath,
		CLILogLevel: "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, ResolvedValue{Value: "from-env", Source: SourceEnv, From: "RIDER_OUTPUT_DIR"}, resolved.OutputDir)
	assert.Equal(t, ResolvedValue{Value: "debug", Source: SourceCLI, From: "--verbose"}, resolved.LogLevel)
	assert.Equal(t, ResolvedValue{Value: "true", Source: SourceConfig, From: cfgPath}, resolved.Preview)

	resolved, err = ResolveConfig(ResolveOptions{ConfigPath: cfgPath, CLIOutputDir: "from-cli"})
	require.NoError(t, err)
	assert.Equal(t, SourceCLI, resolved.OutputDir.Source)
	assert.Equal(t, "from-cli", resolved.OutputDir.Value)
}

func TestResolveConfig_ExplicitPreviewOff(t *testing.T) {
	cfgPath := writeConfig(t, "preview: false\n")

	resolved, err := ResolveConfig(ResolveOptions{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.Equal(t, SourceConfig, resolved.Preview.Source)
}

func TestResolveConfig_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	resolved, err := ResolveConfig(ResolveOptions{
		ConfigPath:   filepath.Join(t.TempDir(), "missing.yaml"),
		CLIOutputDir: "~/contracts/out",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "contracts", "out"), resolved.OutputDir.Value)
}

func TestResolveConfig_Errors(t *testing.T) {
	t.Run("bad yaml", func(t *testing.T) {
		_, err := ResolveConfig(ResolveOptions{ConfigPath: writeConfig(t, "output_dir: [unclosed\n")})
		assert.ErrorContains(t, err, "parsing")
	})

	t.Run("bad level", func(t *testing.T) {
		t.Setenv("RIDER_LOG_LEVEL", "chatty")
		_, err := ResolveConfig(ResolveOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
		assert.ErrorContains(t, err, "log_level from env")
	})

	t.Run("bad preview", func(t *testing.T) {
		_, err := ResolveConfig(ResolveOptions{
			ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
			CLIPreview: "sometimes",
		})
		assert.ErrorContains(t, err, "preview from cli")
	})
}
