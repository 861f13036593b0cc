package admin

// Config holds configuration for the ProxySQL admin connection.
type Config struct {
	// Host is the admin interface host.
	Host string `mapstructure:"host" default:"127.0.0.1"`
	// Port is the admin interface port.
	Port int `mapstructure:"port" default:"6032"`
	// User is the admin username.
	User string `mapstructure:"user" default:""`
	// Password is the admin password.
	Password string `mapstructure:"password" default:""`
	// ConfigFile optionally names a my.cnf-style file whose [client]
	// section supplies user and password.
	ConfigFile string `mapstructure:"config_file" default:""`
	// TimeoutSeconds bounds connection setup and each read/write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
