package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gardar/labscan/pkg/gdocai"
)

// Config is the root configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	DocAI   DocAIConfig   `yaml:"docai" mapstructure:"docai"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ExtractConfig configures field extraction.
type ExtractConfig struct {
	LowConfidenceThreshold float64 `yaml:"low_confidence_threshold" mapstructure:"low_confidence_threshold"`
	Workers                int     `yaml:"workers" mapstructure:"workers"`
}

// DocAIConfig identifies the Google Document AI processor.
type DocAIConfig struct {
	ProjectID   string `yaml:"project_id" mapstructure:"project_id"`
	Location    string `yaml:"location" mapstructure:"location"`
	ProcessorID string `yaml:"processor_id" mapstructure:"processor_id"`
}

// Processor converts the section into the gdocai client configuration.
func (c DocAIConfig) Processor() *gdocai.Config {
	return &gdocai.Config{
		ProjectID:   c.ProjectID,
		Location:    c.Location,
		ProcessorID: c.ProcessorID,
	}
}

// OutputConfig configures how results are written.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Load reads configuration from file and environment. An empty path looks
// for labscan.yaml in the working directory; a missing default file is not
// an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrap(err, "config: read file")
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("labscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("LABSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("extract.low_confidence_threshold", 60.0)
	v.SetDefault("extract.workers", 4)
	v.SetDefault("docai.project_id", "")
	v.SetDefault("docai.location", "us")
	v.SetDefault("docai.processor_id", "")
	v.SetDefault("output.format", FormatJSON)

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

	if err := cfg.validateCommon(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validateCommon() error {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case FormatJSON, FormatYAML:
	default:
		return eris.Errorf("config: output.format must be %q or %q, got %q", FormatJSON, FormatYAML, c.Output.Format)
	}
	if c.Extract.Workers < 1 {
		return eris.Errorf("config: extract.workers must be positive, got %d", c.Extract.Workers)
	}
	if c.Extract.LowConfidenceThreshold < 0 || c.Extract.LowConfidenceThreshold > 100 {
		return eris.Errorf("config: extract.low_confidence_threshold must be within 0-100, got %v", c.Extract.LowConfidenceThreshold)
	}
	return nil
}

// Validate checks that the keys required by a command section are set.
func (c *Config) Validate(section string) error {
	switch section {
	case "docai":
		var missing []string
		if c.DocAI.ProjectID == "" {
			missing = append(missing, "docai.project_id")
		}
		if c.DocAI.Location == "" {
			missing = append(missing, "docai.location")
		}
		if c.DocAI.ProcessorID == "" {
			missing = append(missing, "docai.processor_id")
		}
		if len(missing) > 0 {
			return eris.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
		}
		return nil
	case "extract", "review":
		return c.validateCommon()
	default:
		return eris.Errorf("config: unknown section %q", section)
	}
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
