package app

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sfiharvest/navtrack/cmd/navtrack/app/options"
	"github.com/sfiharvest/navtrack/pkg/log"
)

const (
	envPrefix  = "NAVTRACK"
	aliasesKey = "vehicles.aliases"
	levelKey   = "log.level"
)

// loadConfig merges, by increasing precedence, defaults, the config file,
// NAVTRACK_* environment variables and explicitly set flags into opts.
func loadConfig(v *viper.Viper, cfgFile string, fs *pflag.FlagSet, opts *options.NavtrackOptions) error {
	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	if err := v.Unmarshal(opts); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}
	// Unmarshal merges into the default table; replace it instead.
	opts.VehicleOptions.Aliases = v.GetStringMapString(aliasesKey)
	return nil
}

type aliasSetter interface {
	SetAliases(map[string]string)
}

// watchAliases re-reads the vehicle aliases and the log level whenever the
// config file changes. Other settings need a restart.
func watchAliases(v *viper.Viper, target aliasSetter) {
	if v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		log.Info("Config file changed", "file", e.Name)
		target.SetAliases(v.GetStringMapString(aliasesKey))
		if level := v.GetString(levelKey); level != "" {
			if err := log.SetLevel(level); err != nil {
				log.Error(err, "Ignoring log level from config file")
			}
		}
	})
	v.WatchConfig()
}
