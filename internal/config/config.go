package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Dict      DictConfig      `mapstructure:"dict"`
}

type AppConfig struct {
	Env         string `mapstructure:"env"`
	Timezone    string `mapstructure:"timezone"`
	CodeVersion string `mapstructure:"code_version"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Daily      string `mapstructure:"daily"`
	Weekly     string `mapstructure:"weekly"`
	DictUpdate string `mapstructure:"dict_update"`
}

type CrawlerConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	BoardPath    string        `mapstructure:"board_path"`
	BoardKey     string        `mapstructure:"board_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	Backoff      time.Duration `mapstructure:"backoff"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	Jitter       time.Duration `mapstructure:"jitter"`
	MaxPosts     int           `mapstructure:"max_posts"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type AnalysisConfig struct {
	Alpha float64 `mapstructure:"alpha"`
}

type TokenizerConfig struct {
	UserDict string `mapstructure:"user_dict"`
}

type DictConfig struct {
	InstallDir string        `mapstructure:"install_dir"`
	Repo       string        `mapstructure:"repo"`
	AssetName  string        `mapstructure:"asset_name"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.timezone", "Asia/Tokyo")
	v.SetDefault("app.code_version", "")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "Asia/Tokyo")
	v.SetDefault("cron.enabled", true)
	// JST has no DST; these run at 02:00 daily, 03:00 Monday, 03:00 on the 1st.
	v.SetDefault("cron.daily", "0 0 2 * * *")
	v.SetDefault("cron.weekly", "0 0 3 * * 1")
	v.SetDefault("cron.dict_update", "0 0 3 1 * *")
	v.SetDefault("crawler.base_url", "https://medaka.5ch.net")
	v.SetDefault("crawler.board_path", "/prog/")
	v.SetDefault("crawler.board_key", "prog")
	v.SetDefault("crawler.timeout", "30s")
	v.SetDefault("crawler.max_retries", 3)
	v.SetDefault("crawler.backoff", "1s")
	v.SetDefault("crawler.request_delay", "2s")
	v.SetDefault("crawler.jitter", "500ms")
	v.SetDefault("crawler.max_posts", 300)
	v.SetDefault("crawler.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("analysis.alpha", 0.05)
	v.SetDefault("tokenizer.user_dict", "")
	v.SetDefault("dict.install_dir", "userdict")
	v.SetDefault("dict.repo", "neologd/mecab-ipadic-neologd")
	v.SetDefault("dict.asset_name", "userdict.csv")
	v.SetDefault("dict.timeout", "10s")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
