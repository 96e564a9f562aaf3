package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/chanflow/pkg/flow/channel"
	"github.com/ib-77/chanflow/pkg/flow/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, channel.DefaultCapacity, cfg.Channel.Capacity)
	assert.Equal(t, "wait_for_space", cfg.Channel.Policy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Timestamp)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "chanflow.yml", `
channel:
  capacity: 16
  policy: overwrite_last
logging:
  level: debug
  format: json
metrics:
  enabled: true
`)

	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Channel.Capacity)
	assert.Equal(t, "overwrite_last", cfg.Channel.Policy)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "chanflow.yml", "channel:\n  capacity: 16\n")
	t.Setenv("CHANFLOW_CHANNEL_CAPACITY", "32")
	t.Setenv("CHANFLOW_LOGGING_LEVEL", "WARN")

	cfg, err := Load(WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Channel.Capacity)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "CHANFLOW_CHANNEL_POLICY=overwrite\n")
	t.Cleanup(func() { _ = os.Unsetenv("CHANFLOW_CHANNEL_POLICY") })

	cfg, err := Load(WithEnvFile(path))
	require.NoError(t, err)

	assert.Equal(t, "overwrite", cfg.Channel.Policy)

	o, err := channel.Resolve(cfg.ChannelOptions()...)
	require.NoError(t, err)
	assert.Equal(t, channel.OverwriteLast, o.Policy)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "missing.yml")))
	assert.Error(t, err)

	_, err = Load(WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	assert.Error(t, err)

	path := writeFile(t, "bad.yml", "channel:\n  capacity: -1\n")
	_, err = Load(WithConfigFile(path))
	assert.ErrorContains(t, err, "Capacity")

	path = writeFile(t, "bad.yml", "channel:\n  policy: drop_oldest\n")
	_, err = Load(WithConfigFile(path))
	assert.ErrorContains(t, err, "Policy")
}

func TestValidate_MetricsNameRequiredWhenEnabled(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Name = ""

	assert.Error(t, cfg.Validate())

	cfg.Metrics.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestValidate_LeavesConfigUntouched(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "WARN"
	cfg.Channel.Policy = " Overwrite_Last"
	before := cfg

	assert.Error(t, cfg.Validate())
	assert.Equal(t, before, cfg)

	cfg.Normalize()
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "overwrite_last", cfg.Channel.Policy)
	assert.NoError(t, cfg.Validate())
}

func TestLogging_BuildTo(t *testing.T) {
	var buf bytes.Buffer
	log := Logging{Level: "warn", Format: "json"}.BuildTo(&buf)

	log.Info().Msg("quiet")
	assert.Zero(t, buf.Len())

	log.Warn().Str("stage", "resize").Msg("loud")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"stage":"resize"`)
	assert.NotContains(t, buf.String(), `"time"`)
}

func TestStageOptions(t *testing.T) {
	cfg := Default()
	cfg.Channel.Capacity = 9

	opts, err := cfg.StageOptions("resize")
	require.NoError(t, err)

	s := core.NewSettings(opts...)
	assert.Equal(t, "resize", s.Name)
	assert.Nil(t, s.Recorder)

	o, err := channel.Resolve(s.Channel...)
	require.NoError(t, err)
	assert.Equal(t, 9, o.Capacity)
	assert.Equal(t, channel.WaitForSpace, o.Policy)

	cfg.Metrics.Enabled = true
	opts, err = cfg.StageOptions("resize")
	require.NoError(t, err)
	assert.NotNil(t, core.NewSettings(opts...).Recorder)
}
