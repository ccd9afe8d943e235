package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Port            string
		DebugHost       string
		ShutdownTimeout time.Duration
		AllowedOrigins  []string
		DisableReqLogs  bool
	}

	MongoConfig struct {
		URL            string
		Database       string
		ConnectTimeout time.Duration
	}

	PostgresConfig struct {
		URL            string
		ConnectTimeout time.Duration
		MaxOpenConns   int
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Channel  string
	}

	RealtimeConfig struct {
		SendBuffer int
		WriteWait  time.Duration
		PingPeriod time.Duration
	}

	FeesConfig struct {
		Program                  string
		LockResolvedScholarships bool
	}

	RemindersConfig struct {
		Interval time.Duration
		Window   time.Duration
	}

	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string
		WorkDir  string

		Server    ServerConfig
		Mongo     MongoConfig
		Postgres  PostgresConfig
		Redis     RedisConfig
		Realtime  RealtimeConfig
		Fees      FeesConfig
		Reminders RemindersConfig

		RollbarToken     string
		SendgridApiKey   string
		defaultFromEmail string
	}
)

func (c *Config) Address() string {
	return ":" + c.Server.Port
}

func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

// NewConfig reads the configuration from the environment, after loading `config/.env.<env>` if present.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("app_name", "Smart Campus")
	v.SetDefault("build", "dev")
	v.SetDefault("port", "5001")
	v.SetDefault("server.debug_host", "0.0.0.0:5002")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.disable_req_logs", false)
	v.SetDefault("mongo_url", "")
	v.SetDefault("mongo.database", "smart_classroom")
	v.SetDefault("mongo.connect_timeout", 5*time.Second)
	v.SetDefault("database_url", "")
	v.SetDefault("postgres.connect_timeout", 10*time.Second)
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "campus:timeline")
	v.SetDefault("realtime.send_buffer", 32)
	v.SetDefault("realtime.write_wait", 10*time.Second)
	v.SetDefault("realtime.ping_period", 30*time.Second)
	v.SetDefault("fees.program", "B.Tech")
	v.SetDefault("fees.lock_resolved_scholarships", false)
	v.SetDefault("reminders.interval", time.Duration(0))
	v.SetDefault("reminders.window", 30*24*time.Hour)
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("default_from_email", "noreply@localhost")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("test_mode", true)
	} else {
		v.SetDefault("test_mode", false)
	}

	wd := workDir()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		Env:      env,
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("test_mode"),
		AppName:  v.GetString("app_name"),
		Build:    v.GetString("build"),
		WorkDir:  wd,
		Server: ServerConfig{
			Port:            v.GetString("port"),
			DebugHost:       v.GetString("server.debug_host"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			AllowedOrigins:  v.GetStringSlice("server.allowed_origins"),
			DisableReqLogs:  v.GetBool("server.disable_req_logs"),
		},
		Mongo: MongoConfig{
			URL:            v.GetString("mongo_url"),
			Database:       v.GetString("mongo.database"),
			ConnectTimeout: v.GetDuration("mongo.connect_timeout"),
		},
		Postgres: PostgresConfig{
			URL:            v.GetString("database_url"),
			ConnectTimeout: v.GetDuration("postgres.connect_timeout"),
			MaxOpenConns:   v.GetInt("postgres.max_open_conns"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Channel:  v.GetString("redis.channel"),
		},
		Realtime: RealtimeConfig{
			SendBuffer: v.GetInt("realtime.send_buffer"),
			WriteWait:  v.GetDuration("realtime.write_wait"),
			PingPeriod: v.GetDuration("realtime.ping_period"),
		},
		Fees: FeesConfig{
			Program:                  v.GetString("fees.program"),
			LockResolvedScholarships: v.GetBool("fees.lock_resolved_scholarships"),
		},
		Reminders: RemindersConfig{
			Interval: v.GetDuration("reminders.interval"),
			Window:   v.GetDuration("reminders.window"),
		},
		RollbarToken:     v.GetString("rollbar_token"),
		SendgridApiKey:   v.GetString("sendgrid_api_key"),
		defaultFromEmail: v.GetString("default_from_email"),
	}
}

// NewTestConfig returns the configuration used by package tests: in-memory everything, no network.
func NewTestConfig() *Config {
	return &Config{
		Env:      "TEST",
		Debug:    false,
		TestMode: true,
		AppName:  "Smart Campus",
		Build:    "test",
		Server: ServerConfig{
			Port:            "0",
			ShutdownTimeout: time.Second,
			AllowedOrigins:  []string{"*"},
			DisableReqLogs:  true,
		},
		Mongo:    MongoConfig{Database: "smart_classroom_test", ConnectTimeout: 2 * time.Second},
		Postgres: PostgresConfig{ConnectTimeout: 2 * time.Second, MaxOpenConns: 4},
		Redis:    RedisConfig{Channel: "campus:timeline:test"},
		Realtime: RealtimeConfig{SendBuffer: 16, WriteWait: time.Second, PingPeriod: 30 * time.Second},
		Fees:     FeesConfig{Program: "B.Tech"},
		Reminders: RemindersConfig{
			Window: 30 * 24 * time.Hour,
		},
		defaultFromEmail: "noreply@localhost",
	}
}

func workDir() string {
	if dir := os.Getenv("APP_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	return wd
}
