package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
	defaultConfigFile = "/config.yaml"
)

type httpServer struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type storefront struct {
	NotificationTimeout time.Duration `mapstructure:"notification_timeout"`
	UpdatePromptSnooze  time.Duration `mapstructure:"update_prompt_snooze"`
	RecentSearchLimit   int           `mapstructure:"recent_search_limit"`
	SessionTTL          time.Duration `mapstructure:"session_ttl"`
}

type catalog struct {
	File           string  `mapstructure:"file"`
	USDToDZDRate   float64 `mapstructure:"usd_dzd_rate"`
	ExternalOffset *int64  `mapstructure:"external_offset"`
	LocalOffset    *int64  `mapstructure:"local_offset"`
}

type submission struct {
	Endpoint            string        `mapstructure:"endpoint"`
	Timeout             time.Duration `mapstructure:"timeout"`
	BreakerMaxFailures  uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenInterval time.Duration `mapstructure:"breaker_open_interval"`
}

type prefs struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	RecentTTL     time.Duration `mapstructure:"recent_ttl"`
}

type archive struct {
	DSN string `mapstructure:"dsn"`
}

type topics struct {
	Orders          string `mapstructure:"orders"`
	ProductRequests string `mapstructure:"product_requests"`
}

type brokerTLS struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

func (t brokerTLS) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	TLS                brokerTLS `mapstructure:"tls"`
}

// Enabled reports whether order events and product requests go to the
// broker.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel   slog.Level `mapstructure:"log_level"`
	HTTP       httpServer `mapstructure:"http"`
	Storefront storefront `mapstructure:"storefront"`
	Catalog    catalog    `mapstructure:"catalog"`
	Submission submission `mapstructure:"submission"`
	Prefs      prefs      `mapstructure:"prefs"`
	Archive    archive    `mapstructure:"archive"`
	Broker     broker     `mapstructure:"broker"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.request_timeout", 20*time.Second)
	v.SetDefault("storefront.notification_timeout", 3*time.Second)
	v.SetDefault("storefront.update_prompt_snooze", time.Hour)
	v.SetDefault("storefront.recent_search_limit", 5)
	v.SetDefault("storefront.session_ttl", 24*time.Hour)
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.usd_dzd_rate", 0)
	v.SetDefault("submission.endpoint", "")
	v.SetDefault("submission.timeout", 15*time.Second)
	v.SetDefault("submission.breaker_max_failures", 5)
	v.SetDefault("submission.breaker_open_interval", 30*time.Second)
	v.SetDefault("prefs.redis_addr", "")
	v.SetDefault("prefs.redis_password", "")
	v.SetDefault("prefs.redis_db", 0)
	v.SetDefault("prefs.key_prefix", "storefront")
	v.SetDefault("prefs.recent_ttl", 30*24*time.Hour)
	v.SetDefault("archive.dsn", "")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.orders", "orders")
	v.SetDefault("broker.topics.product_requests", "product-requests")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")

	// no defaults, unset means the catalog document decides
	_ = v.BindEnv("catalog.external_offset")
	_ = v.BindEnv("catalog.local_offset")
}

// Load reads the config file named by STOREFRONT_CONFIG_FILE or --config
// and applies STOREFRONT_* environment overrides. A missing default file
// is not an error.
func Load() Config {
	path, explicit := getConfigFilepath()
	cfg, err := load(path, explicit)
	if err != nil {
		die(err)
	}
	return cfg
}

func load(path string, explicit bool) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getConfigFilepath() (path string, explicit bool) {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", defaultConfigFile, "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env, true
	}
	return *arg, cmdLine.Changed("config")
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPAddr=%q
	RequestTimeout=%s

	Storefront:
	NotificationTimeout=%s
	UpdatePromptSnooze=%s
	RecentSearchLimit=%d
	SessionTTL=%s

	Catalog:
	File=%q
	USDToDZDRate=%v

	Submission:
	Endpoint=%q
	Timeout=%s
	BreakerMaxFailures=%d
	BreakerOpenInterval=%s

	Prefs:
	RedisAddr=%q
	KeyPrefix=%q

	Archive:
	Enabled=%t

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Orders=%q
		ProductRequests=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTP.Addr,
		c.HTTP.RequestTimeout,
		c.Storefront.NotificationTimeout,
		c.Storefront.UpdatePromptSnooze,
		c.Storefront.RecentSearchLimit,
		c.Storefront.SessionTTL,
		c.Catalog.File,
		c.Catalog.USDToDZDRate,
		c.Submission.Endpoint,
		c.Submission.Timeout,
		c.Submission.BreakerMaxFailures,
		c.Submission.BreakerOpenInterval,
		c.Prefs.RedisAddr,
		c.Prefs.KeyPrefix,
		c.Archive.DSN != "",
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.Orders,
		c.Broker.Topics.ProductRequests,
	)
}
