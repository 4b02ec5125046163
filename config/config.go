package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
		// StoreDriver is "postgres" or "memory".
		StoreDriver string
	}
	DB struct {
		User      string
		Password  string
		Name      string
		Host      string
		Port      string
		SSLMode   string
		OpTimeout time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string

		// DeliveryQueue receives file.delivered reports from the transport side.
		DeliveryQueue string

		// DeadLetterExchange collects reports the consumer gave up on; empty
		// disables dead-lettering.
		DeadLetterExchange string
		DeadLetterQueue    string
	}
	Redis struct {
		Addr       string
		Password   string
		DB         int
		SessionTTL time.Duration
	}
	Bot struct {
		Token        string
		Username     string
		APIURL       string
		ForceChannel string
		Timeout      time.Duration
	}
	Landing struct {
		BaseURL        string
		DeepLinkScheme string
		DeepLinkPrefix string
		DelaySeconds   int
	}
	Gate struct {
		LinkRequireSubscription   bool
		LinkPremiumBypass         bool
		UploadRequireSubscription bool
		UploadRequirePremium      bool
		UploadPremiumBypass       bool
	}
	Cache struct {
		Size int
		TTL  time.Duration
	}
	Log struct {
		Level      string
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
	Admin struct {
		Username     string
		PasswordHash string
	}

	Config struct {
		App     APP
		DB      DB
		MQ      MQ
		Redis   Redis
		Bot     Bot
		Landing Landing
		Gate    Gate
		Cache   Cache
		Log     Log
		Admin   Admin
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return def
}

func Load() Config {
	app := APP{
		Name:        getEnv("SERVICE_NAME", "filelink"),
		Host:        getEnv("SERVICE_HOST", ""),
		Port:        getEnv("SERVICE_PORT", "8080"),
		Env:         getEnv("SERVICE_ENV", ""),
		JWTSecret:   getEnv("SERVICE_JWT_SECRET", ""),
		StoreDriver: getEnv("STORE_DRIVER", "postgres"),
	}
	db := DB{
		User:      getEnv("POSTGRES_USER", ""),
		Password:  getEnv("POSTGRES_PASSWORD", ""),
		Name:      getEnv("POSTGRES_DB", ""),
		Host:      getEnv("POSTGRES_HOST", ""),
		Port:      getEnv("POSTGRES_PORT", ""),
		SSLMode:   getEnv("POSTGRES_SSLMODE", "disable"),
		OpTimeout: getDuration("POSTGRES_OP_TIMEOUT", 5*time.Second),
	}
	mq := MQ{
		User:               getEnv("RABBITMQ_USER", ""),
		Password:           getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:              getEnv("RABBITMQ_VHOST", ""),
		Host:               getEnv("RABBITMQ_HOST", ""),
		AmqpPort:           getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:           getEnv("RABBITMQ_EXCHANGE", "filelink"),
		ExchangeType:       getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:          getEnv("RABBITMQ_QUEUE_NAME", "filelink.events"),
		DeliveryQueue:      getEnv("RABBITMQ_DELIVERY_QUEUE", "filelink.deliveries"),
		DeadLetterExchange: getEnv("RABBITMQ_DEAD_LETTER_EXCHANGE", "filelink.dlx"),
		DeadLetterQueue:    getEnv("RABBITMQ_DEAD_LETTER_QUEUE", "filelink.deliveries.dead"),
	}
	rds := Redis{
		Addr:       getEnv("REDIS_ADDR", ""),
		Password:   getEnv("REDIS_PASSWORD", ""),
		DB:         getInt("REDIS_DB", 0),
		SessionTTL: getDuration("REDIS_SESSION_TTL", 0),
	}
	bot := Bot{
		Token:        getEnv("BOT_TOKEN", ""),
		Username:     getEnv("BOT_USERNAME", ""),
		APIURL:       getEnv("BOT_API_URL", "https://api.telegram.org"),
		ForceChannel: getEnv("FORCE_SUB_CHANNEL", ""),
		Timeout:      getDuration("BOT_API_TIMEOUT", 5*time.Second),
	}
	landing := Landing{
		BaseURL:        getEnv("LANDING_BASE_URL", ""),
		DeepLinkScheme: getEnv("DEEPLINK_SCHEME", "https"),
		DeepLinkPrefix: getEnv("DEEPLINK_PREFIX", "t.me/"),
		DelaySeconds:   getInt("LANDING_DELAY_SECONDS", 5),
	}
	gate := Gate{
		LinkRequireSubscription:   getBool("GATE_LINK_REQUIRE_SUBSCRIPTION", true),
		LinkPremiumBypass:         getBool("GATE_LINK_PREMIUM_BYPASS", false),
		UploadRequireSubscription: getBool("GATE_UPLOAD_REQUIRE_SUBSCRIPTION", true),
		UploadRequirePremium:      getBool("GATE_UPLOAD_REQUIRE_PREMIUM", false),
		UploadPremiumBypass:       getBool("GATE_UPLOAD_PREMIUM_BYPASS", false),
	}
	cache := Cache{
		Size: getInt("PREMIUM_CACHE_SIZE", 1024),
		TTL:  getDuration("PREMIUM_CACHE_TTL", time.Minute),
	}
	lg := Log{
		Level:      getEnv("LOG_LEVEL", "info"),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  getInt("LOG_MAX_SIZE_MB", 100),
		MaxBackups: getInt("LOG_MAX_BACKUPS", 5),
		MaxAgeDays: getInt("LOG_MAX_AGE_DAYS", 30),
	}
	admin := Admin{
		Username:     getEnv("ADMIN_USERNAME", "admin"),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	return Config{
		App:     app,
		DB:      db,
		MQ:      mq,
		Redis:   rds,
		Bot:     bot,
		Landing: landing,
		Gate:    gate,
		Cache:   cache,
		Log:     lg,
		Admin:   admin,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
		c.DB.SSLMode,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
