package admin

import (
	"fmt"

	"github.com/spf13/viper"
)

// ApplyCredentialsFile overlays user and password from the my.cnf-style file
// named by cfg.ConfigFile, when one is set. Values already present in cfg are
// only replaced when the file provides them. The file must contain a [client]
// section, the format the mysql client family shares.
func ApplyCredentialsFile(cfg *Config) error {
	if cfg.ConfigFile == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(cfg.ConfigFile)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read credentials file %s: %w", cfg.ConfigFile, err)
	}

	if user := v.GetString("client.user"); user != "" {
		cfg.User = user
	}
	if password := v.GetString("client.password"); password != "" {
		cfg.Password = password
	}
	if host := v.GetString("client.host"); host != "" {
		cfg.Host = host
	}
	if port := v.GetInt("client.port"); port != 0 {
		cfg.Port = port
	}

	return nil
}
