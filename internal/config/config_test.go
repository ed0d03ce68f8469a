package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "payload-mapper", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowOrigins)
	assert.Equal(t, "data/mappings", cfg.Data.MappingsDir)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: mapper-test
  log_level: debug
http:
  port: 9090
  strict_mode: true
data:
  mappings_dir: /tmp/mappings
  guards_path: /tmp/guards.json
`), 0o644))

	t.Setenv("PAYLOAD_MAPPER_HTTP_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mapper-test", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.True(t, cfg.HTTP.StrictMode)
	assert.Equal(t, "/tmp/mappings", cfg.Data.MappingsDir)
	assert.Equal(t, "/tmp/guards.json", cfg.Data.GuardsPath)
	assert.Equal(t, "data/vocabulary/invoicing-items.json", cfg.Data.InvoicingItemsPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:  AppConfig{Name: "x", LogLevel: "info"},
			HTTP: HTTPConfig{Port: 80},
			Data: DataConfig{MappingsDir: "m"},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.App.Name = ""
	assert.Error(t, c.Validate())

	c = base()
	c.HTTP.Port = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Data.MappingsDir = ""
	assert.Error(t, c.Validate())

	c = base()
	c.App.LogLevel = "verbose"
	assert.Error(t, c.Validate())
}
