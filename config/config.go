package config

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
	"video-gallery/constant"
)

type Config struct {
	MinIOBucket string        `yaml:"minio_bucket"`
	App         App           `yaml:"app"`
	Server      Server        `yaml:"server"`
	Database    Database      `yaml:"database"`
	DB          *sql.DB       `yaml:"db"`
	Cloudinary  Cloudinary    `yaml:"cloudinary"`
	Clerk       Clerk         `yaml:"clerk"`
	Upload      Upload        `yaml:"upload"`
	Queue       *RabbitMQ     `yaml:"rabbitmq"`
	Redis       Redis         `yaml:"redis"`
	Storage     *minio.Client `yaml:"storage"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type Database struct {
	URL             string        `yaml:"url"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Cloudinary holds the three secrets the upload endpoint refuses to run without.
type Cloudinary struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

func (c Cloudinary) Complete() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type Clerk struct {
	PublishableKey    string   `yaml:"publishable_key"`
	SecretKey         string   `yaml:"secret_key"`
	JWTKey            string   `yaml:"jwt_key"`
	AuthorizedParties []string `yaml:"authorized_parties"`
	SignInURL         string   `yaml:"sign_in_url"`
	SignUpURL         string   `yaml:"sign_up_url"`
}

type Upload struct {
	MaxFileSize     int64         `yaml:"max_file_size"`
	Timeout         time.Duration `yaml:"timeout"`
	PreviewDuration int           `yaml:"preview_duration"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	db, err := sql.Open("postgres", v.GetString("database.url"))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(v.GetInt("database.max_open_conns"))
	db.SetMaxIdleConns(v.GetInt("database.max_idle_conns"))
	db.SetConnMaxLifetime(v.GetDuration("database.conn_max_lifetime"))

	var rabbitmq *RabbitMQ
	if v.GetString("rabbitmq.host") != "" {
		rabbitmq = &RabbitMQ{
			Host:         v.GetString("rabbitmq.host"),
			Port:         v.GetInt("rabbitmq.port"),
			User:         v.GetString("rabbitmq.user"),
			Pass:         v.GetString("rabbitmq.pass"),
			ExchangeName: v.GetString("rabbitmq.exchange_name"),
			Kind:         v.GetString("rabbitmq.kind"),
		}
	}

	var minioClient *minio.Client
	if v.GetBool("minio.enabled") {
		minioClient, err = minio.New(v.GetString("minio.url"), &minio.Options{
			Creds:  credentials.NewStaticV4(v.GetString("minio.access_id"), v.GetString("minio.secret_access_key"), ""),
			Secure: v.GetBool("minio.secure"),
		})
		if err != nil {
			return nil, err
		}
	}

	return &Config{
		MinIOBucket: v.GetString("minio.bucket"),
		App: App{
			Environment: v.GetString("app.environment"),
			Host:        v.GetString("app.host"),
			Protocol:    v.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: v.GetString("server.port"),
			Workers:  v.GetInt("server.workers"),
		},
		Database: Database{
			URL:             v.GetString("database.url"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		DB: db,
		Cloudinary: Cloudinary{
			CloudName: v.GetString("cloudinary.cloud_name"),
			APIKey:    v.GetString("cloudinary.api_key"),
			APISecret: v.GetString("cloudinary.api_secret"),
		},
		Clerk: Clerk{
			PublishableKey:    v.GetString("clerk.publishable_key"),
			SecretKey:         v.GetString("clerk.secret_key"),
			JWTKey:            v.GetString("clerk.jwt_key"),
			AuthorizedParties: v.GetStringSlice("clerk.authorized_parties"),
			SignInURL:         v.GetString("clerk.sign_in_url"),
			SignUpURL:         v.GetString("clerk.sign_up_url"),
		},
		Upload: Upload{
			MaxFileSize:     v.GetInt64("upload.max_file_size"),
			Timeout:         v.GetDuration("upload.timeout"),
			PreviewDuration: v.GetInt("upload.preview_duration"),
		},
		Queue: rabbitmq,
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		Storage: minioClient,
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", constant.EnvironmentDevelop.String())
	v.SetDefault("app.protocol", "http")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.workers", 2)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("upload.max_file_size", constant.DefaultMaxFileSize)
	v.SetDefault("upload.timeout", constant.DefaultUploadTimeout)
	v.SetDefault("upload.preview_duration", constant.DefaultPreviewDuration)
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.kind", "direct")
	v.SetDefault("rabbitmq.exchange_name", "media_cleanup_exchange")
	v.SetDefault("redis.ttl", constant.DefaultListingCacheTTL)
	v.SetDefault("minio.bucket", "video-originals")
}

// bindEnv maps the variable names the hosted deployment already uses.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"database.url":             {"DATABASE_URL"},
		"cloudinary.cloud_name":    {"CLOUDINARY_CLOUD_NAME", "NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME"},
		"cloudinary.api_key":       {"CLOUDINARY_API_KEY"},
		"cloudinary.api_secret":    {"CLOUDINARY_API_SECRET"},
		"clerk.publishable_key":    {"CLERK_PUBLISHABLE_KEY", "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY"},
		"clerk.secret_key":         {"CLERK_SECRET_KEY"},
		"clerk.jwt_key":            {"CLERK_JWT_KEY"},
		"clerk.sign_in_url":        {"CLERK_SIGN_IN_URL", "NEXT_PUBLIC_CLERK_SIGN_IN_URL"},
		"clerk.sign_up_url":        {"CLERK_SIGN_UP_URL", "NEXT_PUBLIC_CLERK_SIGN_UP_URL"},
		"clerk.authorized_parties": {"CLERK_AUTHORIZED_PARTIES"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}
