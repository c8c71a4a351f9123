package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productosapi/internal/sheet"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "SHEET_ID", "GOOGLE_APPLICATION_CREDENTIALS", "PRODUCTOS_BACKEND", "PRODUCTOS_DATA_DIR", "PRODUCTOS_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigWithInfo_TomlAndDepartments(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
default_department = "general"

[server]
port = 8081

[backend]
kind = "xlsx"

[data]
data_dir = "datos"
journal = false

[[departments]]
key = "general"
kind = "corta"
table_id = "sheet-general"

[[departments]]
key = "deposito"
kind = "extendida"
table_id = "sheet-deposito"
initial_status = "EN CÁMARA"
`)

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.Found)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, sheet.KindWorkbook, cfg.Backend.Kind)
	assert.False(t, cfg.Data.Journal)
	assert.Equal(t, filepath.Join(dir, "datos"), cfg.Resolve(cfg.Data.DataDir))

	reg, err := BuildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"deposito", "general"}, reg.Keys())
	assert.Equal(t, "general", reg.DefaultKey())

	dep, err := reg.Resolve("deposito")
	require.NoError(t, err)
	assert.Equal(t, "EN CÁMARA", dep.InitialStatus)
}

func TestLoadConfigWithInfo_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SHEET_ID", "abc123")
	t.Setenv("PRODUCTOS_BACKEND", "memory")
	t.Setenv("PRODUCTOS_LOG_LEVEL", "debug")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")

	path := writeFile(t, t.TempDir(), "config.toml", "[log]\nlevel = \"warn\"\n")
	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)

	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "abc123", cfg.Backend.SheetID)
	assert.Equal(t, sheet.KindMemory, cfg.Backend.Kind)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/secrets/sa.json", cfg.Resolve(cfg.Backend.CredentialsFile))

	// 未配置部门时由 SHEET_ID 生成 general
	reg, err := BuildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"general"}, reg.Keys())
	gen, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "abc123", gen.TableID)
	assert.Equal(t, "Hoja1!D", gen.Sheet+"!"+gen.StatusColumn)
}

func TestLoadConfigWithInfo_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")

	_, _, err := LoadConfigWithInfo(writeFile(t, t.TempDir(), "config.toml", ""))
	assert.Error(t, err)
}

func TestLoadConfigWithInfo_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, info, err := LoadConfigWithInfo(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
	assert.False(t, info.Found)
}

func TestLoadConfigWithInfo_BadToml(t *testing.T) {
	clearEnv(t)

	_, _, err := LoadConfigWithInfo(writeFile(t, t.TempDir(), "config.toml", "[server\nport = 1"))
	assert.Error(t, err)
}

func TestBuildRegistry_DepartmentsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "departamentos.yaml", `default: deposito
departments:
  - key: deposito
    kind: extendida
  - key: general
    kind: corta
    table_id: otra
`)
	path := writeFile(t, dir, "config.toml", `departments_file = "departamentos.yaml"

[backend]
sheet_id = "compartida"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	reg, err := BuildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, "deposito", reg.DefaultKey())

	dep, err := reg.Resolve("deposito")
	require.NoError(t, err)
	assert.Equal(t, "compartida", dep.TableID)

	gen, err := reg.Resolve("general")
	require.NoError(t, err)
	assert.Equal(t, "otra", gen.TableID)
}

func TestBuildRegistry_NothingConfigured(t *testing.T) {
	clearEnv(t)

	_, err := BuildRegistry(DefaultConfig())
	assert.Error(t, err)
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "tablas"))
}
