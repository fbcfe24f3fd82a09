package flags

import (
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const megabyte = 1 << 20

// Settings struct
type Settings struct {
	AppID           string
	APIURL          string
	MediaURL        string
	NotifyURL       string
	LogLevel        string
	LogFile         string
	DBDriver        string
	DSN             string
	UploadTimeout   time.Duration
	LabImageMaxMB   int
	AdImageMaxMB    int
	UnionImageMaxMB int
	ConfigFile      string
}

// NewSettings creates a new settings instance
func NewSettings() *Settings {
	return &Settings{}
}

// LoadConfig loads the configuration from a config file, environment variables, flags, and default values
func (s *Settings) LoadConfig() {
	viper.SetDefault("app_id", "net.runasp.apilab.console")
	viper.SetDefault("api_url", "https://apilab-dev.runasp.net/api")
	viper.SetDefault("media_url", "https://apilab-dev.runasp.net")
	viper.SetDefault("notify_url", "https://apilab-dev.runasp.net/WeatherForecast/fcm")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("db_driver", "sqlite3")
	viper.SetDefault("dsn", "console.db")
	viper.SetDefault("upload_timeout", 10*time.Minute)
	viper.SetDefault("lab_image_max_mb", 2)
	viper.SetDefault("ad_image_max_mb", 5)
	viper.SetDefault("union_image_max_mb", 5)

	pflag.StringP("config", "c", "", "Path to a config file (yaml, toml or json)")
	pflag.String("app_id", "", "Application ID used for desktop preferences")
	pflag.StringP("api_url", "A", "", "Base URL of the lab REST API")
	pflag.StringP("media_url", "M", "", "Origin that served-back image paths are resolved against")
	pflag.StringP("notify_url", "N", "", "Push notification dispatch endpoint")
	pflag.StringP("log_level", "L", "", "Log level")
	pflag.String("log_file", "", "Optional rotated log file")
	pflag.String("db_driver", "", "Preference store driver: sqlite3 or postgres")
	pflag.StringP("dsn", "D", "", "Preference store data source name")
	pflag.Duration("upload_timeout", 0, "Ceiling for union image uploads")
	pflag.Int("lab_image_max_mb", 0, "Maximum lab test image size in MiB")
	pflag.Int("ad_image_max_mb", 0, "Maximum ad image size in MiB")
	pflag.Int("union_image_max_mb", 0, "Maximum union image size in MiB")

	pflag.Parse()

	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		log.Printf("failed to bind flags: %v", err)
	}
	viper.AutomaticEnv()

	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		if err := viper.ReadInConfig(); err != nil {
			log.Printf("failed to read config file %s: %v", cfg, err)
		}
		s.ConfigFile = cfg
	}

	s.AppID = viper.GetString("app_id")
	s.APIURL = viper.GetString("api_url")
	s.MediaURL = viper.GetString("media_url")
	s.NotifyURL = viper.GetString("notify_url")
	s.LogLevel = viper.GetString("log_level")
	s.LogFile = viper.GetString("log_file")
	s.DBDriver = viper.GetString("db_driver")
	s.DSN = viper.GetString("dsn")
	s.UploadTimeout = viper.GetDuration("upload_timeout")
	s.LabImageMaxMB = viper.GetInt("lab_image_max_mb")
	s.AdImageMaxMB = viper.GetInt("ad_image_max_mb")
	s.UnionImageMaxMB = viper.GetInt("union_image_max_mb")
}

// GetAPIURL returns the REST API base URL
func (s *Settings) GetAPIURL() string {
	return s.APIURL
}

// GetMediaURL returns the origin for served-back images
func (s *Settings) GetMediaURL() string {
	return s.MediaURL
}

// GetNotifyURL returns the notification dispatch endpoint
func (s *Settings) GetNotifyURL() string {
	return s.NotifyURL
}

// GetLogLevel returns the log level
func (s *Settings) GetLogLevel() string {
	return s.LogLevel
}

// GetDSN returns the preference store data source name
func (s *Settings) GetDSN() string {
	return s.DSN
}

// GetUploadTimeout returns the union image upload ceiling
func (s *Settings) GetUploadTimeout() time.Duration {
	return s.UploadTimeout
}

// LabImageLimit returns the lab test image ceiling in bytes
func (s *Settings) LabImageLimit() int64 {
	return int64(s.LabImageMaxMB) * megabyte
}

// AdImageLimit returns the ad image ceiling in bytes
func (s *Settings) AdImageLimit() int64 {
	return int64(s.AdImageMaxMB) * megabyte
}

// UnionImageLimit returns the union image ceiling in bytes
func (s *Settings) UnionImageLimit() int64 {
	return int64(s.UnionImageMaxMB) * megabyte
}
