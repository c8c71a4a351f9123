package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"productosapi/internal/schema"
	"productosapi/internal/sheet"
)

// AppConfig 应用配置
type AppConfig struct {
	DefaultDepartment string              `toml:"default_department"`
	DepartmentsFile   string              `toml:"departments_file"`
	Server            ServerConfig        `toml:"server"`
	Data              DataConfig          `toml:"data"`
	Backend           BackendConfig       `toml:"backend"`
	Log               LogConfig           `toml:"log"`
	Departments       []schema.Definition `toml:"departments"`

	// baseDir 配置文件所在目录，用于解析相对路径
	baseDir string
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	Journal bool   `toml:"journal"`
}

// BackendConfig 表格后端配置
type BackendConfig struct {
	Kind            sheet.Kind `toml:"kind"` // google / xlsx / memory
	CredentialsFile string     `toml:"credentials_file"`
	SheetID         string     `toml:"sheet_id"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	Found         bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    3000,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			Journal: true,
		},
		Backend: BackendConfig{
			Kind:            sheet.KindGoogle,
			CredentialsFile: "credentials.json",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 加载 .env 与 config.toml 并返回元信息
// path 为空时读取可执行文件同目录下的 config.toml，不存在则使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, info, fmt.Errorf("读取 .env 失败: %w", err)
	}

	explicit := path != ""
	if !explicit {
		exeDir, err := GetExeDir()
		if err != nil {
			// 无法获取可执行文件目录，使用当前目录
			exeDir = "."
		}
		path = filepath.Join(exeDir, "config.toml")
	}
	info.Path = path
	cfg.baseDir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.Found = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("解析 %s 失败: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if err := cfg.applyEnvOverrides(&info); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	cfg, _, err := LoadConfigWithInfo(path)
	return cfg, err
}

// applyEnvOverrides 环境变量覆盖（部署时通过 .env 或容器注入）
func (c *AppConfig) applyEnvOverrides(info *LoadConfigInfo) error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("PORT 非法: %q", v)
		}
		c.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv("SHEET_ID"); v != "" {
		c.Backend.SheetID = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		c.Backend.CredentialsFile = v
	}
	if v := os.Getenv("PRODUCTOS_BACKEND"); v != "" {
		c.Backend.Kind = sheet.Kind(v)
	}
	if v := os.Getenv("PRODUCTOS_DATA_DIR"); v != "" {
		c.Data.DataDir = v
	}
	if v := os.Getenv("PRODUCTOS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Resolve 把相对路径解析到配置文件所在目录
func (c *AppConfig) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	base := c.baseDir
	if base == "" {
		base = "."
	}
	return filepath.Join(base, p)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(cfg *AppConfig) (string, error) {
	dataDir := cfg.Resolve(cfg.Data.DataDir)
	if dataDir == "" {
		dataDir = "data"
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"tablas"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// BuildRegistry 合并 config.toml 与 YAML 部门文件，构建部门注册表
//
// 两处都没有部门且设置了 SHEET_ID 时，生成单部门 "general"（短表）。
func BuildRegistry(cfg *AppConfig) (*schema.Registry, error) {
	defs := append([]schema.Definition(nil), cfg.Departments...)
	defaultKey := cfg.DefaultDepartment

	if cfg.DepartmentsFile != "" {
		fileDefs, fileDefault, err := schema.LoadYAML(cfg.Resolve(cfg.DepartmentsFile))
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
		if defaultKey == "" {
			defaultKey = fileDefault
		}
	}

	if len(defs) == 0 {
		if cfg.Backend.SheetID == "" {
			return nil, fmt.Errorf("未配置部门，且缺少 SHEET_ID")
		}
		defs = append(defs, schema.Definition{
			Key:     "general",
			Kind:    "corta",
			TableID: cfg.Backend.SheetID,
		})
		if defaultKey == "" {
			defaultKey = "general"
		}
	}

	for i := range defs {
		if defs[i].TableID == "" {
			defs[i].TableID = cfg.Backend.SheetID
		}
	}

	return schema.FromDefinitions(defs, defaultKey)
}
