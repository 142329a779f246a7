// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"bydupdates/internal/calculator"
	"bydupdates/internal/content"
	"bydupdates/internal/seo"
)

// ErrMissingEndpoint is returned by Validate when no CMS endpoint is configured.
var ErrMissingEndpoint = errors.New("config: cms endpoint is not set (cms.endpoint or WORDPRESS_API_URL)")

// SiteConfig holds the configuration from the site.yaml (or site.toml) file.
type SiteConfig struct {
	Title              string   `yaml:"title" toml:"title"`
	Author             string   `yaml:"author" toml:"author"`
	BaseURL            string   `yaml:"baseurl" toml:"baseurl"`
	Description        string   `yaml:"description" toml:"description"`
	Keywords           []string `yaml:"keywords" toml:"keywords"`
	Locale             string   `yaml:"locale" toml:"locale"`
	Twitter            string   `yaml:"twitter" toml:"twitter"`
	DefaultImage       string   `yaml:"default_image" toml:"default_image"`
	GoogleVerification string   `yaml:"google_verification" toml:"google_verification"`

	CMS        CMSConfig        `yaml:"cms" toml:"cms"`
	Assets     AssetsConfig     `yaml:"assets" toml:"assets"`
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Build      BuildConfig      `yaml:"build" toml:"build"`
	Pagination PaginationConfig `yaml:"pagination" toml:"pagination"`
	Calculator CalculatorConfig `yaml:"calculator" toml:"calculator"`
}

type CMSConfig struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	// Timeout is a Go duration string such as "15s".
	Timeout           string  `yaml:"timeout" toml:"timeout"`
	FAQFields         int     `yaml:"faq_fields" toml:"faq_fields"`
	FactFields        int     `yaml:"fact_fields" toml:"fact_fields"`
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`
}

// TimeoutDuration parses Timeout, falling back to 15s.
func (c CMSConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.Timeout))
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

type AssetsConfig struct {
	LegacyPrefix string `yaml:"legacy_prefix" toml:"legacy_prefix"`
	CDNBase      string `yaml:"cdn_base" toml:"cdn_base"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
	// TemplateDir and StaticDir override the embedded theme, mainly for --dev.
	TemplateDir string `yaml:"template_dir" toml:"template_dir"`
	StaticDir   string `yaml:"static_dir" toml:"static_dir"`
	PagesDir    string `yaml:"pages_dir" toml:"pages_dir"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type BuildConfig struct {
	Output      string `yaml:"output" toml:"output"`
	Concurrency int    `yaml:"concurrency" toml:"concurrency"`
}

type PaginationConfig struct {
	PerPage int `yaml:"per_page" toml:"per_page"`
}

type CalculatorConfig struct {
	Currency    string                      `yaml:"currency" toml:"currency"`
	Preset      string                      `yaml:"preset" toml:"preset"`
	BatteryKWh  float64                     `yaml:"battery_kwh" toml:"battery_kwh"`
	CurrentPct  float64                     `yaml:"current_pct" toml:"current_pct"`
	TargetPct   float64                     `yaml:"target_pct" toml:"target_pct"`
	Rate        float64                     `yaml:"rate" toml:"rate"`
	Consumption float64                     `yaml:"consumption_kwh_per_100km" toml:"consumption_kwh_per_100km"`
	LossPct     float64                     `yaml:"efficiency_loss_pct" toml:"efficiency_loss_pct"`
	Profiles    []calculator.ChargerProfile `yaml:"profiles" toml:"profiles"`
	Presets     []calculator.Preset         `yaml:"presets" toml:"presets"`
}

// Session is the calculator state a fresh page starts from.
func (c CalculatorConfig) Session() calculator.Session {
	return calculator.NewSession(c.Preset, calculator.Inputs{
		BatteryKWh:             c.BatteryKWh,
		CurrentPct:             c.CurrentPct,
		TargetPct:              c.TargetPct,
		Rate:                   c.Rate,
		EfficiencyLossPct:      c.LossPct,
		ConsumptionKWhPer100km: c.Consumption,
	})
}

// Default returns the configuration used when no file is given.
func Default() SiteConfig {
	cfg := SiteConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *SiteConfig) applyDefaults() {
	if c.Title == "" {
		c.Title = "BYD Car Updates"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://bydcarupdates.com"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Description == "" {
		c.Description = "Stay updated with the latest BYD electric vehicle news, comprehensive model reviews, specifications, and industry insights."
	}
	if len(c.Keywords) == 0 {
		c.Keywords = []string{"BYD", "electric vehicles", "EV news", "BYD reviews", "electric cars"}
	}
	if c.Locale == "" {
		c.Locale = "en_US"
	}
	if c.Author == "" {
		c.Author = c.Title + " Team"
	}

	if c.CMS.Timeout == "" {
		c.CMS.Timeout = "15s"
	}
	if c.CMS.FAQFields <= 0 {
		c.CMS.FAQFields = 5
	}
	if c.CMS.FactFields <= 0 {
		c.CMS.FactFields = 4
	}

	if c.Assets.LegacyPrefix == "" {
		c.Assets.LegacyPrefix = content.DefaultLegacyPrefix
	}
	if c.Assets.CDNBase == "" {
		c.Assets.CDNBase = content.DefaultCDNBase
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Build.Output == "" {
		c.Build.Output = "public"
	}
	if c.Build.Concurrency <= 0 {
		c.Build.Concurrency = 8
	}
	if c.Pagination.PerPage <= 0 {
		c.Pagination.PerPage = seo.DefaultPerPage
	}

	calc := &c.Calculator
	if calc.Currency == "" {
		calc.Currency = "$"
	}
	if calc.Preset == "" {
		calc.Preset = "Tesla Model 3 / Y (Long Range)"
	}
	if calc.BatteryKWh == 0 {
		calc.BatteryKWh = 75
	}
	if calc.CurrentPct == 0 && calc.TargetPct == 0 {
		calc.CurrentPct, calc.TargetPct = 20, 80
	}
	if calc.Rate == 0 {
		calc.Rate = 0.25
	}
	if calc.Consumption == 0 {
		calc.Consumption = 16
	}
	if len(calc.Profiles) == 0 {
		calc.Profiles = calculator.DefaultProfiles()
	}
	if len(calc.Presets) == 0 {
		calc.Presets = calculator.DefaultPresets()
	}
}

// LoadSiteConfig decodes a site file. ".toml" files are read as TOML,
// everything else as YAML.
func LoadSiteConfig(path string) (SiteConfig, error) {
	cfg := SiteConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Load reads the optional site file at path, loads a .env file next to it
// (or in the working directory) when present, overlays the environment and
// fills in defaults. An empty path skips the file.
func Load(path string) (SiteConfig, error) {
	cfg := SiteConfig{}
	if path != "" {
		var err error
		if cfg, err = LoadSiteConfig(path); err != nil {
			return SiteConfig{}, err
		}
	}

	if err := loadDotEnv(path); err != nil {
		return SiteConfig{}, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return SiteConfig{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func loadDotEnv(configPath string) error {
	candidates := []string{".env"}
	if configPath != "" {
		if dir := filepath.Dir(configPath); dir != "." {
			candidates = append([]string{filepath.Join(dir, ".env")}, candidates...)
		}
	}
	for _, f := range candidates {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// godotenv.Load never overrides variables already set in the process.
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("could not load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays the deployment environment variables onto c.
func (c *SiteConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("WORDPRESS_API_URL"); ok && strings.TrimSpace(v) != "" {
		c.CMS.Endpoint = strings.TrimSpace(v)
	}
	if v, ok := lookup("NEXT_PUBLIC_SITE_URL"); ok && strings.TrimSpace(v) != "" {
		c.BaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup("GOOGLE_SITE_VERIFICATION"); ok {
		c.GoogleVerification = strings.TrimSpace(v)
	}
	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks the settings needed to talk to the CMS and build URLs.
func (c SiteConfig) Validate() error {
	if strings.TrimSpace(c.CMS.Endpoint) == "" {
		return ErrMissingEndpoint
	}
	if _, err := url.ParseRequestURI(c.CMS.Endpoint); err != nil {
		return fmt.Errorf("invalid cms endpoint %q: %w", c.CMS.Endpoint, err)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("baseurl %q must be an absolute http(s) URL", c.BaseURL)
	}
	return nil
}

// Site converts the configuration into SEO site defaults.
func (c SiteConfig) Site() seo.Site {
	return seo.Site{
		Name:               c.Title,
		BaseURL:            c.BaseURL,
		Description:        c.Description,
		Keywords:           c.Keywords,
		Twitter:            c.Twitter,
		DefaultImage:       c.DefaultImage,
		GoogleVerification: c.GoogleVerification,
		Locale:             c.Locale,
	}
}
