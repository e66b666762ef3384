package providers

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"seenkeeper/internal/structures"
	"strings"
	"time"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 18470)
	v.SetDefault("structured.path", "data/seenkeeper.db")
	v.SetDefault("structured.reopenInterval", time.Duration(0))
	v.SetDefault("legacy.driver", "file")
	v.SetDefault("legacy.path", "data/legacy.json")
	v.SetDefault("legacy.compress", false)
	v.SetDefault("legacy.syncInterval", time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("metrics.enabled", false)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "SEENKEEPER_LOG_LEVEL")
	v.BindEnv("structured.path", "SEENKEEPER_DB_PATH")
	v.BindEnv("structured.reopenInterval", "SEENKEEPER_REOPEN_INTERVAL")
	v.BindEnv("legacy.driver", "SEENKEEPER_LEGACY_DRIVER")
	v.BindEnv("legacy.path", "SEENKEEPER_LEGACY_PATH")
	v.BindEnv("cache.enabled", "SEENKEEPER_CACHE_ENABLED")
	v.BindEnv("premium.passphrase", "SEENKEEPER_PREMIUM_PASSPHRASE")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "SeenKeeper"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
