package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Booking holds the reservation engine settings. Field names default to the
// historical bookings schema and can be overridden per deployment.
type Booking struct {
	Resource string `envconfig:"RESOURCE" default:"bookings" validate:"required,identifier"`
	Fields   struct {
		ID               string `envconfig:"ID"                  default:"id"                  validate:"required,identifier"`
		PoolID           string `envconfig:"POOL_ID"             default:"pool_id"             validate:"required,identifier"`
		BookingSetID     string `envconfig:"BOOKING_SET_ID"      default:"booking_set_id"      validate:"required,identifier"`
		Status           string `envconfig:"STATUS"              default:"status"              validate:"required,identifier"`
		StatusChangedAt  string `envconfig:"STATUS_DATETIME_UTC" default:"status_datetime_utc" validate:"required,identifier"`
		UserID           string `envconfig:"USER_ID"             default:"user_id"             validate:"required,identifier"`
		BookerDataSource string `envconfig:"BOOKER_DATA_SOURCE"  default:"booker_data_source"  validate:"required,identifier"`
		UnitID           string `envconfig:"UNIT_ID"             default:"unit_id"             validate:"required,identifier"`
	} `envconfig:"FIELDS"`
	Quota struct {
		Mode   string         `envconfig:"MODE"   default:"basic" validate:"oneof=none basic"`
		Limits map[string]int `envconfig:"LIMITS" validate:"dive,gte=0"`
	} `envconfig:"QUOTA"`
	ExtraData struct {
		Mode  string `envconfig:"MODE"  default:"none"                validate:"oneof=none merged separate"`
		Table string `envconfig:"TABLE" default:"booking_extra_datas" validate:"required,identifier"`
	} `envconfig:"EXTRA_DATA"`
	Lock struct {
		Mode        string `envconfig:"MODE"         default:"advisory" validate:"oneof=advisory redis"`
		TTLSeconds  int    `envconfig:"TTL_SECONDS"  default:"10"       validate:"gt=0"`
		RetryMillis int    `envconfig:"RETRY_MILLIS" default:"25"       validate:"gt=0"`
	} `envconfig:"LOCK"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name string `envconfig:"APP_NAME"`
		CORS struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Booking Booking `envconfig:"BOOKING"`

	Kafka struct {
		Brokers     []string `envconfig:"BROKERS"`
		TopicBooked string   `envconfig:"TOPIC_BOOKED" default:"booking.booked"`
		SASL        struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Warn().Err(err).Msg("Configuration initialized without .env file")
		}
	}

	return &conf
}
