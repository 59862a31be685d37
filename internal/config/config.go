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
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	ESPN        ESPNConfig        `yaml:"espn" mapstructure:"espn"`
	FantasyPros FantasyProsConfig `yaml:"fantasypros" mapstructure:"fantasypros"`
	SportsDB    SportsDBConfig    `yaml:"sportsdb" mapstructure:"sportsdb"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Synthesis   SynthesisConfig   `yaml:"synthesis" mapstructure:"synthesis"`
	Tables      TablesConfig      `yaml:"tables" mapstructure:"tables"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
}

// OutputConfig controls where generated files land.
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	PlayersFile string `yaml:"players_file" mapstructure:"players_file"`
	SummaryFile string `yaml:"summary_file" mapstructure:"summary_file"`
}

// ESPNConfig holds the ESPN site and fantasy API endpoints.
type ESPNConfig struct {
	SiteBaseURL    string `yaml:"site_base_url" mapstructure:"site_base_url"`
	FantasyBaseURL string `yaml:"fantasy_base_url" mapstructure:"fantasy_base_url"`
	Season         int    `yaml:"season" mapstructure:"season"`
}

// FantasyProsConfig holds the rankings page root.
type FantasyProsConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SportsDBConfig holds the TheSportsDB API root used by probe.
type SportsDBConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig configures outbound HTTP behavior.
type FetchConfig struct {
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts      int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int    `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	ThrottleMs       int    `yaml:"throttle_ms" mapstructure:"throttle_ms"`
	ScrapeThrottleMs int    `yaml:"scrape_throttle_ms" mapstructure:"scrape_throttle_ms"`
}

// SynthesisConfig tunes the projection and injury models.
type SynthesisConfig struct {
	SeasonGames      int     `yaml:"season_games" mapstructure:"season_games"`
	Seed             uint64  `yaml:"seed" mapstructure:"seed"`
	MinorInjuryRate  float64 `yaml:"minor_injury_rate" mapstructure:"minor_injury_rate"`
	DefaultRisk      float64 `yaml:"default_risk" mapstructure:"default_risk"`
	MinRosterPlayers int     `yaml:"min_roster_players" mapstructure:"min_roster_players"`
}

// TablesConfig points at an optional reference-table override file.
type TablesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the data API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DRAFTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("output.dir", "data")
	v.SetDefault("output.players_file", "players.json")
	v.SetDefault("output.summary_file", "summary.json")
	v.SetDefault("espn.site_base_url", "https://site.api.espn.com/apis/site/v2/sports/football/nfl")
	v.SetDefault("espn.fantasy_base_url", "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl")
	v.SetDefault("espn.season", 2024)
	v.SetDefault("fantasypros.base_url", "https://www.fantasypros.com/nfl/rankings")
	v.SetDefault("sportsdb.base_url", "https://www.thesportsdb.com/api/v1/json/3")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; draftboard/1.0)")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.max_attempts", 2)
	v.SetDefault("fetch.initial_backoff_ms", 500)
	v.SetDefault("fetch.throttle_ms", 500)
	v.SetDefault("fetch.scrape_throttle_ms", 1000)
	v.SetDefault("synthesis.season_games", 17)
	v.SetDefault("synthesis.seed", 0)
	v.SetDefault("synthesis.minor_injury_rate", 0.2)
	v.SetDefault("synthesis.default_risk", 0.2)
	v.SetDefault("synthesis.min_roster_players", 500)
	v.SetDefault("tables.path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})

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

// Validate checks the settings a command needs. mode is the command name:
// generate, probe, project or serve.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "generate":
		errs = append(errs, c.validateOutput()...)
		errs = append(errs, c.validateSynthesis()...)
		errs = append(errs, c.validateFetch()...)
		if c.ESPN.Season < 2000 {
			errs = append(errs, "espn.season must be a four-digit year")
		}
	case "probe":
		errs = append(errs, c.validateOutput()...)
		errs = append(errs, c.validateFetch()...)
	case "project":
		errs = append(errs, c.validateSynthesis()...)
	case "serve":
		errs = append(errs, c.validateOutput()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateOutput() []string {
	var errs []string
	if strings.TrimSpace(c.Output.Dir) == "" {
		errs = append(errs, "output.dir is required")
	}
	if strings.TrimSpace(c.Output.PlayersFile) == "" || strings.TrimSpace(c.Output.SummaryFile) == "" {
		errs = append(errs, "output.players_file and output.summary_file are required")
	}
	return errs
}

func (c *Config) validateSynthesis() []string {
	var errs []string
	if c.Synthesis.SeasonGames != 16 && c.Synthesis.SeasonGames != 17 {
		errs = append(errs, "synthesis.season_games must be 16 or 17")
	}
	if c.Synthesis.MinorInjuryRate < 0 || c.Synthesis.MinorInjuryRate > 1 {
		errs = append(errs, "synthesis.minor_injury_rate must be between 0 and 1")
	}
	if c.Synthesis.DefaultRisk < 0 || c.Synthesis.DefaultRisk > 1 {
		errs = append(errs, "synthesis.default_risk must be between 0 and 1")
	}
	if c.Synthesis.MinRosterPlayers < 0 {
		errs = append(errs, "synthesis.min_roster_players must be >= 0")
	}
	return errs
}

func (c *Config) validateFetch() []string {
	var errs []string
	if c.Fetch.TimeoutSecs <= 0 {
		errs = append(errs, "fetch.timeout_secs must be > 0")
	}
	if c.Fetch.MaxAttempts < 1 {
		errs = append(errs, "fetch.max_attempts must be >= 1")
	}
	if c.Fetch.ThrottleMs < 0 || c.Fetch.ScrapeThrottleMs < 0 || c.Fetch.InitialBackoffMs < 0 {
		errs = append(errs, "fetch delays must be >= 0")
	}
	return errs
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
