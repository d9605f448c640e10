package config

import (
	"log/slog"
	"net"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	ModeLambda = "lambda"
	ModeLocal  = "local"
)

const (
	BackendAWS    = "aws"
	BackendMemory = "memory"
)

// Environment variable names of the two write targets. They are kept verbatim
// so existing deployments keep working.
const (
	EnvBucketName = "S3_BUCKET_NAME"
	EnvTableName  = "DYNAMODB_TABLE"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
	Mode        string `mapstructure:"mode"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	AddSource bool   `mapstructure:"add_source"`
}

type AWSConfig struct {
	Region           string `mapstructure:"region"`
	Endpoint         string `mapstructure:"endpoint"`
	S3ForcePathStyle bool   `mapstructure:"s3_force_path_style"`
}

type StorageConfig struct {
	Backend                string `mapstructure:"backend"`
	Bucket                 string `mapstructure:"bucket"`
	Table                  string `mapstructure:"table"`
	RollbackOnTableFailure bool   `mapstructure:"rollback_on_table_failure"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	AWS     AWSConfig     `mapstructure:"aws"`
	Storage StorageConfig `mapstructure:"storage"`
}

// Load reads configuration from defaults, an optional config.yaml and the
// environment. Missing bucket or table names are not an error here; the
// handler reports them per invocation.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", ModeLambda)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.add_source", false)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("aws.s3_force_path_style", false)
	v.SetDefault("storage.backend", BackendAWS)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.table", "")
	v.SetDefault("storage.rollback_on_table_failure", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The write targets use their historical names rather than STORAGE_*.
	if err := v.BindEnv("storage.bucket", EnvBucketName); err != nil {
		return nil, err
	}
	if err := v.BindEnv("storage.table", EnvTableName); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Mode,
						validation.Required,
						validation.In(ModeLambda, ModeLocal),
					),
					validation.Field(&sc.Address,
						validation.When(sc.Mode == ModeLocal, validation.Required),
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.AWS,
			validation.By(func(value interface{}) error {
				ac, ok := value.(AWSConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an AWSConfig")
				}
				return validation.ValidateStruct(&ac,
					validation.Field(&ac.Endpoint, is.URL),
				)
			}),
		),
		validation.Field(&c.Storage,
			validation.By(func(value interface{}) error {
				sc, ok := value.(StorageConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a StorageConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Backend,
						validation.Required,
						validation.In(BackendAWS, BackendMemory),
					),
				)
			}),
		),
	)
}

// ValidateTargets reports which of the bucket and table names are missing.
func (s StorageConfig) ValidateTargets() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Bucket, validation.Required.Error(EnvBucketName+" is not set")),
		validation.Field(&s.Table, validation.Required.Error(EnvTableName+" is not set")),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
