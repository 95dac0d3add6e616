package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Guideline  GuidelineConfig  `mapstructure:"guideline"`
	Labeling   LabelingConfig   `mapstructure:"labeling"`
	TextLayer  TextLayerConfig  `mapstructure:"text_layer"`
	Annotation AnnotationConfig `mapstructure:"annotation"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// GuidelineConfig names the sheet and columns of the guideline workbook
type GuidelineConfig struct {
	SheetMatch   string `mapstructure:"sheet_match"`
	VendorColumn string `mapstructure:"vendor_column"`
	LabelColumn  string `mapstructure:"label_column"`
}

// LabelingConfig holds the defaults and output names
type LabelingConfig struct {
	DefaultCostCenter string `mapstructure:"default_cost_center"` // MPK
	DefaultGroup      string `mapstructure:"default_group"`       // Grupa
	ReportFileName    string `mapstructure:"report_file_name"`
	ReportSheet       string `mapstructure:"report_sheet"`
	AnnotatedPrefix   string `mapstructure:"annotated_prefix"`
}

// TextLayerConfig selects how invoice text is read
type TextLayerConfig struct {
	Engine         string `mapstructure:"engine"` // fitz or pdf
	OCREnabled     bool   `mapstructure:"ocr_enabled"`
	OCRLanguage    string `mapstructure:"ocr_language"`
	TessdataPrefix string `mapstructure:"tessdata_prefix"`
	MinTextChars   int    `mapstructure:"min_text_chars"`
}

// AnnotationConfig controls the label stamped on page 1
type AnnotationConfig struct {
	Font   string `mapstructure:"font"`
	Points int    `mapstructure:"points"`
	Color  string `mapstructure:"color"`
	DX     int    `mapstructure:"dx"`
	DY     int    `mapstructure:"dy"`
}

// StorageConfig holds local output configuration
type StorageConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Load reads an optional .env file, the config file at configPath (skipped
// when empty or missing) and LABELER_* environment overrides
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LABELER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_bytes", 20<<20)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	// Guideline workbook layout
	v.SetDefault("guideline.sheet_match", "przyklady")
	v.SetDefault("guideline.vendor_column", "Nazwa kontrahenta")
	v.SetDefault("guideline.label_column", "Etykieta")

	// Labeling defaults
	v.SetDefault("labeling.default_cost_center", "MPK000")
	v.SetDefault("labeling.default_group", "0/0")
	v.SetDefault("labeling.report_file_name", "raport_faktury.xlsx")
	v.SetDefault("labeling.report_sheet", "Raport")
	v.SetDefault("labeling.annotated_prefix", "faktura_z_opisem_")

	// Text layer defaults
	v.SetDefault("text_layer.engine", "fitz")
	v.SetDefault("text_layer.ocr_enabled", false)
	v.SetDefault("text_layer.ocr_language", "pol")
	v.SetDefault("text_layer.tessdata_prefix", "")
	v.SetDefault("text_layer.min_text_chars", 20)

	// Annotation defaults
	v.SetDefault("annotation.font", "Helvetica-Bold")
	v.SetDefault("annotation.points", 20)
	v.SetDefault("annotation.color", "#CC0000")
	v.SetDefault("annotation.dx", 50)
	v.SetDefault("annotation.dy", -40)

	// Storage defaults
	v.SetDefault("storage.output_dir", "output")
}

// bindEnvVars binds conventional variable names alongside LABELER_*
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "LABELER_SERVER_PORT", "PORT")
	_ = v.BindEnv("logger.level", "LABELER_LOGGER_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("text_layer.tessdata_prefix", "LABELER_TEXT_LAYER_TESSDATA_PREFIX", "TESSDATA_PREFIX")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Guideline.VendorColumn == "" || c.Guideline.LabelColumn == "" {
		return fmt.Errorf("guideline.vendor_column and guideline.label_column are required")
	}

	if c.Labeling.DefaultCostCenter == "" {
		return fmt.Errorf("labeling.default_cost_center is required")
	}
	if c.Labeling.DefaultGroup == "" {
		return fmt.Errorf("labeling.default_group is required")
	}
	if c.Labeling.ReportFileName == "" {
		return fmt.Errorf("labeling.report_file_name is required")
	}

	switch c.TextLayer.Engine {
	case "fitz", "pdf":
	default:
		return fmt.Errorf("text_layer.engine must be fitz or pdf, got %q", c.TextLayer.Engine)
	}
	if c.TextLayer.MinTextChars < 0 {
		return fmt.Errorf("text_layer.min_text_chars must not be negative")
	}

	if c.Annotation.Points <= 0 {
		return fmt.Errorf("annotation.points must be positive")
	}
	if !hexColor.MatchString(c.Annotation.Color) {
		return fmt.Errorf("annotation.color must be a #RRGGBB hex color, got %q", c.Annotation.Color)
	}

	return nil
}
