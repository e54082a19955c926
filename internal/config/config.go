package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `json:"server"`
	Database      DatabaseConfig      `json:"database"`
	Storage       StorageConfig       `json:"storage"`
	GoogleDocs    GoogleDocsConfig    `json:"google_docs"`
	Renderer      RendererConfig      `json:"renderer"`
	Notifications NotificationsConfig `json:"notifications"`
	Security      SecurityConfig      `json:"security"`
	Logging       LoggingConfig       `json:"logging"`
	Worker        WorkerConfig        `json:"worker"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// StorageConfig configures the S3 artifact store.
type StorageConfig struct {
	Region          string        `json:"region"`
	Endpoint        string        `json:"endpoint"`
	AccessKeyID     string        `json:"access_key_id"`
	SecretAccessKey string        `json:"secret_access_key"`
	UsePathStyle    bool          `json:"use_path_style"`
	Bucket          string        `json:"bucket"`
	URLTTL          time.Duration `json:"url_ttl"`
}

// GoogleDocsConfig configures the Google Docs generation backend. The
// backend is disabled when TemplateID is empty.
type GoogleDocsConfig struct {
	TemplateID            string `json:"template_id"`
	ServiceAccountKeyPath string `json:"service_account_key_path"`
	OutputFolderID        string `json:"output_folder_id"`
}

// RendererConfig configures the headless browser backend.
type RendererConfig struct {
	BrowserPath string `json:"browser_path"`
	Disabled    bool   `json:"disabled"`
}

// NotificationsConfig configures outbound notification channels.
type NotificationsConfig struct {
	EmailSender string `json:"email_sender"`
	WebhookURL  string `json:"webhook_url"`
}

// SecurityConfig
type SecurityConfig struct {
	JWTSecret string        `json:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// WorkerConfig configures the maintenance worker.
type WorkerConfig struct {
	Schedule          string        `json:"schedule"`
	StaleThreshold    time.Duration `json:"stale_threshold"`
	ArtifactRetention time.Duration `json:"artifact_retention"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "contract_portal",
			SSLMode: "disable",
		},
		Storage: StorageConfig{
			Region: "us-east-1",
			Bucket: "contract-portal-artifacts",
			URLTTL: 15 * time.Minute,
		},
		Security: SecurityConfig{
			TokenTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Worker: WorkerConfig{
			Schedule:          "*/15 * * * *",
			StaleThreshold:    time.Hour,
			ArtifactRetention: 90 * 24 * time.Hour,
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		config.Storage.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
		config.Storage.UsePathStyle = true
	}
	if key := os.Getenv("S3_ACCESS_KEY_ID"); key != "" {
		config.Storage.AccessKeyID = key
	}
	if secret := os.Getenv("S3_SECRET_ACCESS_KEY"); secret != "" {
		config.Storage.SecretAccessKey = secret
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if templateID := os.Getenv("GOOGLE_DOCS_TEMPLATE_ID"); templateID != "" {
		config.GoogleDocs.TemplateID = templateID
	}
	if keyPath := os.Getenv("GOOGLE_SERVICE_ACCOUNT_KEY_PATH"); keyPath != "" {
		config.GoogleDocs.ServiceAccountKeyPath = keyPath
	}
	if folderID := os.Getenv("GOOGLE_DRIVE_OUTPUT_FOLDER_ID"); folderID != "" {
		config.GoogleDocs.OutputFolderID = folderID
	}
	if path := os.Getenv("BROWSER_PATH"); path != "" {
		config.Renderer.BrowserPath = path
	}
	if os.Getenv("RENDERER_DISABLED") == "true" {
		config.Renderer.Disabled = true
	}
	if sender := os.Getenv("NOTIFICATION_EMAIL_SENDER"); sender != "" {
		config.Notifications.EmailSender = sender
	}
	if url := os.Getenv("NOTIFICATION_WEBHOOK_URL"); url != "" {
		config.Notifications.WebhookURL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if schedule := os.Getenv("WORKER_SCHEDULE"); schedule != "" {
		config.Worker.Schedule = schedule
	}
	if threshold := os.Getenv("WORKER_STALE_THRESHOLD"); threshold != "" {
		if d, err := time.ParseDuration(threshold); err == nil {
			config.Worker.StaleThreshold = d
		}
	}
	if retention := os.Getenv("WORKER_ARTIFACT_RETENTION"); retention != "" {
		if d, err := time.ParseDuration(retention); err == nil {
			config.Worker.ArtifactRetention = d
		}
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
