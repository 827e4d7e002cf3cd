// pkg/config/config.go
//
// Configuration for groundwork: compiled defaults, optional config file
// (/etc/groundwork/config.yaml or ~/.config/groundwork/config.yaml), and
// GROUNDWORK_* environment overrides, in ascending precedence.

package config

import (
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/groundworklabs/groundwork/pkg/gw_err"
)

// Config holds the resolved settings for one groundwork invocation.
type Config struct {
	// ScriptDir is where bare unit names are resolved. Empty means the
	// directory of the running executable.
	ScriptDir string `mapstructure:"script_dir"`

	// LogDir collects per-unit logs for provisioning runs.
	LogDir string `mapstructure:"log_dir" validate:"required"`

	DeployUser string `mapstructure:"deploy_user" validate:"required"`
	SSHPort    int    `mapstructure:"ssh_port" validate:"min=1,max=65535"`

	WebServerName string `mapstructure:"webserver_name" validate:"required"`
	WebImage      string `mapstructure:"web_image" validate:"required"`
	HTTPPort      int    `mapstructure:"http_port" validate:"min=1,max=65535"`
	HTTPSPort     int    `mapstructure:"https_port" validate:"min=1,max=65535"`
	TLSDir        string `mapstructure:"tls_dir" validate:"required"`

	// MonitorInterval is the memory logger cadence in minutes.
	MonitorInterval int    `mapstructure:"monitor_interval" validate:"min=1,max=60"`
	MonitorLog      string `mapstructure:"monitor_log" validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("script_dir", "")
	v.SetDefault("log_dir", "provision-logs")
	v.SetDefault("deploy_user", "deploy")
	v.SetDefault("ssh_port", 22)
	v.SetDefault("webserver_name", "groundwork-nginx")
	v.SetDefault("web_image", "nginx:stable")
	v.SetDefault("http_port", 80)
	v.SetDefault("https_port", 443)
	v.SetDefault("tls_dir", "/etc/groundwork/tls")
	v.SetDefault("monitor_interval", 5)
	v.SetDefault("monitor_log", "/var/log/groundwork/memory.log")
}

// Load reads and validates the configuration. A missing config file is fine;
// a malformed one is not.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/groundwork")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "groundwork"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("GROUNDWORK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !cerr.As(err, &notFound) {
			return nil, cerr.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, cerr.Wrap(err, "failed to decode config")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, gw_err.WrapValidationError(err)
	}
	return &cfg, nil
}
