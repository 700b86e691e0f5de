package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName    string `mapstructure:"cloud_name"`
		ApiKey       string `mapstructure:"api_key"`
		ApiSecret    string `mapstructure:"api_secret"`
		PrivateRoot  string `mapstructure:"private_root"`
		PublicRoot   string `mapstructure:"public_root"`
	} `mapstructure:"cloudinary"`
	RapidAPI struct {
		URL        string        `mapstructure:"url"`
		Host       string        `mapstructure:"host"`
		Key        string        `mapstructure:"key"`
		MaxRetries int           `mapstructure:"max_retries"`
		RetryDelay time.Duration `mapstructure:"retry_delay"`
	} `mapstructure:"rapidapi"`
	Turnstile struct {
		ChallengeURL string `mapstructure:"challenge_url"`
		SecretKey    string `mapstructure:"secret_key"`
	} `mapstructure:"turnstile"`
	Ingest struct {
		MaxRetries   int           `mapstructure:"max_retries"`
		RetryDelay   time.Duration `mapstructure:"retry_delay"`
		MediaDomains []string      `mapstructure:"media_domains"`
	} `mapstructure:"ingest"`
	Guest struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"guest"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

func LoadConfig(paths ...string) (cfg Config, err error) {

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		viper.AddConfigPath(p)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("app.env", "development")
	viper.SetDefault("rapidapi.max_retries", 5)
	viper.SetDefault("rapidapi.retry_delay", 2*time.Second)
	viper.SetDefault("ingest.max_retries", 4)
	viper.SetDefault("ingest.retry_delay", time.Second)
	viper.SetDefault("ingest.media_domains", []string{"media.licdn.com", "static.licdn.com"})
	viper.SetDefault("guest.ttl", 7*24*time.Hour)
	viper.SetDefault("cloudinary.private_root", "profiles")
	viper.SetDefault("cloudinary.public_root", "published")

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("db.dsn", "DB_DSN")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	viper.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	viper.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	viper.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	viper.BindEnv("rapidapi.url", "RAPIDAPI_URL")
	viper.BindEnv("rapidapi.host", "RAPIDAPI_HOST")
	viper.BindEnv("rapidapi.key", "RAPIDAPI_KEY")

	viper.BindEnv("turnstile.challenge_url", "TURNSTILE_CHALLENGE_URL")
	viper.BindEnv("turnstile.secret_key", "TURNSTILE_SECRET_KEY")

	viper.BindEnv("jaeger.otlp_endpoint", "JAEGER_OTLP_ENDPOINT")

	err = viper.Unmarshal(&cfg)
	return
}
