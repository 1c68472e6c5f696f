package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/catalog/internal/logger"
	"github.com/mesh-intelligence/catalog/internal/paths"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "CATALOG"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyPostgresDSN   = "postgres.dsn"
	cfgKeyRemoteURL     = "remote.base_url"
	cfgKeyRemoteTimeout = "remote.timeout"
	cfgKeyServerAddr    = "server.addr"
	cfgKeyLogEnv        = "log.env"
	cfgKeyLogLevel      = "log.level"
	cfgKeyVariant       = "controller.variant"

	defaultBackend    = types.BackendSQLite
	defaultServerAddr = ":8420"
	defaultLogLevel   = "info"
	defaultVariant    = variantCatalog
)

// Controller variants selectable by controller.variant.
const (
	variantCatalog = "catalog"
	variantSimple  = "simple"
)

// envKeys are overridable as CATALOG_<KEY> with dots as underscores.
// data_dir is absent: CATALOG_DATA_DIR ranks below config.yaml and is
// handled by paths.ResolveDataDir.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyPostgresDSN,
	cfgKeyRemoteURL,
	cfgKeyRemoteTimeout,
	cfgKeyServerAddr,
	cfgKeyLogEnv,
	cfgKeyLogLevel,
	cfgKeyVariant,
}

// settings is the resolved configuration of one invocation.
type settings struct {
	Backend       string
	DataDir       string
	PostgresDSN   string
	RemoteURL     string
	RemoteTimeout time.Duration
	ServerAddr    string
	LogEnv        string
	LogLevel      string
	Variant       string
}

// storeConfig returns the Attach configuration for the selected backend.
func (s settings) storeConfig() types.Config {
	return types.Config{
		Backend:       s.Backend,
		DataDir:       s.DataDir,
		PostgresDSN:   s.PostgresDSN,
		RemoteURL:     s.RemoteURL,
		RemoteTimeout: s.RemoteTimeout,
	}
}

// configFile is the structure written to config.yaml.
type configFile struct {
	Backend    string           `yaml:"backend"`
	DataDir    string           `yaml:"data_dir,omitempty"`
	Postgres   postgresSection  `yaml:"postgres,omitempty"`
	Remote     remoteSection    `yaml:"remote,omitempty"`
	Server     serverSection    `yaml:"server"`
	Log        logSection       `yaml:"log"`
	Controller controllerConfig `yaml:"controller"`
}

type postgresSection struct {
	DSN string `yaml:"dsn,omitempty"`
}

type remoteSection struct {
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

type serverSection struct {
	Addr string `yaml:"addr"`
}

type logSection struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

type controllerConfig struct {
	Variant string `yaml:"variant"`
}

func defaultConfigFile(dataDir string) configFile {
	return configFile{
		Backend:    defaultBackend,
		DataDir:    dataDir,
		Server:     serverSection{Addr: defaultServerAddr},
		Log:        logSection{Env: logger.EnvProduction, Level: defaultLogLevel},
		Controller: controllerConfig{Variant: defaultVariant},
	}
}

// loadConfig reads config.yaml from configDir, writing a default one on
// first run, and resolves the data directory against dataDirFlag. A first
// run with --data-dir records it in the new file.
func loadConfig(configDir, dataDirFlag string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("create config dir: %w", err)
	}
	if _, err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), dataDirFlag); err != nil {
		return settings{}, fmt.Errorf("write default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)
	v.SetDefault(cfgKeyLogEnv, logger.EnvProduction)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyVariant, defaultVariant)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return settings{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	return settings{
		Backend:       strings.ToLower(v.GetString(cfgKeyBackend)),
		DataDir:       dataDir,
		PostgresDSN:   v.GetString(cfgKeyPostgresDSN),
		RemoteURL:     v.GetString(cfgKeyRemoteURL),
		RemoteTimeout: v.GetDuration(cfgKeyRemoteTimeout),
		ServerAddr:    v.GetString(cfgKeyServerAddr),
		LogEnv:        v.GetString(cfgKeyLogEnv),
		LogLevel:      v.GetString(cfgKeyLogLevel),
		Variant:       strings.ToLower(v.GetString(cfgKeyVariant)),
	}, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist and reports whether it wrote one.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}

// readConfigFile decodes config.yaml as written by init.
func readConfigFile(path string) (configFile, error) {
	var cfg configFile
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(data, &cfg)
	return cfg, err
}
