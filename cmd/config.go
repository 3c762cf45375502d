package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-lvmsnap/internal/services"
	"github.com/deploymenttheory/go-lvmsnap/pkg/app"
)

// config merges flags, LVMSNAP_* environment variables and the config file.
// Keys are the long flag names, e.g. snapshot-prefix or LVMSNAP_SNAPSHOT_PREFIX.
var config = viper.New()

func init() {
	config.SetConfigName("lvmsnap")
	config.SetConfigType("yaml")
	config.AddConfigPath(".")
	config.AddConfigPath("$HOME/.lvmsnap")
	config.AddConfigPath("/etc/lvmsnap")

	config.SetDefault("output", "table")
	config.SetDefault("snapshot-prefix", services.DefaultSnapshotPrefix)
	config.SetDefault("destination", "./")
	config.SetDefault("backend", services.BackendTar)
	config.SetDefault("compression", services.DefaultCompression)

	config.SetEnvPrefix("LVMSNAP")
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()
}

// loadConfig binds the flags of cmd and reads the config file. A missing
// config file is fine unless one was named explicitly.
func loadConfig(cmd *cobra.Command) error {
	if err := config.BindPFlags(cmd.Flags()); err != nil {
		return app.NewError(app.ErrCodeConfiguration, "failed to bind flags", err)
	}

	if configFile != "" {
		config.SetConfigFile(configFile)
	}
	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return app.NewError(app.ErrCodeConfiguration, "failed to read config file", err)
		}
	}
	return nil
}
