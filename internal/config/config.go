package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data       DataConfig       `yaml:"data" mapstructure:"data"`
	Profile    ProfileConfig    `yaml:"profile" mapstructure:"profile"`
	Projection ProjectionConfig `yaml:"projection" mapstructure:"projection"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the route archives and the county reference data.
type DataConfig struct {
	RouteDir     string `yaml:"route_dir" mapstructure:"route_dir"`
	CountiesPath string `yaml:"counties_path" mapstructure:"counties_path"`
	NameField    string `yaml:"name_field" mapstructure:"name_field"`
	SourceSRS    string `yaml:"source_srs" mapstructure:"source_srs"`
}

// ProfileConfig holds the values the user supplies about themselves.
type ProfileConfig struct {
	Counties         []string `yaml:"counties" mapstructure:"counties"`
	YearsOfResidency int      `yaml:"years_of_residency" mapstructure:"years_of_residency"`
	VehicleAge       int      `yaml:"vehicle_age" mapstructure:"vehicle_age"`
	IncludeTraversed bool     `yaml:"include_traversed" mapstructure:"include_traversed"`
}

// ProjectionConfig configures the planar coordinate system used for
// distance and length measurement.
type ProjectionConfig struct {
	Target       string  `yaml:"target" mapstructure:"target"`
	BufferMeters float64 `yaml:"buffer_meters" mapstructure:"buffer_meters"`
}

// ReportConfig configures result rendering.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default spatial reference systems as proj4 strings.
const (
	WGS84    = "+proj=longlat +datum=WGS84 +no_defs"
	UTM14N   = "+proj=utm +zone=14 +datum=WGS84 +units=m +no_defs"
	NameAttr = "CNTY_NM"
)

// Load reads configuration from ./config.yaml (when present) and environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path and environment. An empty path
// falls back to the optional ./config.yaml; an explicit path must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("TXTRAVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.route_dir", "data")
	v.SetDefault("data.counties_path", "data/Texas_County_Boundaries.shp")
	v.SetDefault("data.name_field", NameAttr)
	v.SetDefault("data.source_srs", WGS84)
	v.SetDefault("profile.counties", []string{})
	v.SetDefault("profile.years_of_residency", 1)
	v.SetDefault("profile.vehicle_age", 0)
	v.SetDefault("profile.include_traversed", true)
	v.SetDefault("projection.target", UTM14N)
	v.SetDefault("projection.buffer_meters", 1.0)
	v.SetDefault("report.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the user-supplied profile values.
func (c *Config) Validate() error {
	if c.Profile.YearsOfResidency < 1 {
		return eris.Errorf("config: profile.years_of_residency must be positive, got %d", c.Profile.YearsOfResidency)
	}
	if c.Profile.VehicleAge < 0 {
		return eris.Errorf("config: profile.vehicle_age must not be negative, got %d", c.Profile.VehicleAge)
	}
	if strings.TrimSpace(c.Projection.Target) == "" {
		return eris.New("config: projection.target is required")
	}
	if c.Projection.BufferMeters <= 0 {
		return eris.Errorf("config: projection.buffer_meters must be positive, got %g", c.Projection.BufferMeters)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
