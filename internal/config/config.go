package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Meta          Meta          `mapstructure:",squash"`
	MetaRetry     MetaRetry     `mapstructure:",squash"`
	MetaBatch     MetaBatch     `mapstructure:",squash"`
	MetaUpload    MetaUpload    `mapstructure:",squash"`
	Clone         Clone         `mapstructure:",squash"`
	HierarchySync HierarchySync `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	SecretKey     string        `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL        string    `mapstructure:"meta_base_url"`
	URL            string    `mapstructure:"meta_url"`
	Version        string    `mapstructure:"meta_version"`
	AccessToken    string    `mapstructure:"meta_access_token"`
	AppID          string    `mapstructure:"meta_app_id"`
	AppSecret      string    `mapstructure:"meta_app_secret"`
	LongLivedToken string    `mapstructure:"meta_long_lived_token"`
	TokenExpiresAt time.Time `mapstructure:"-"`
	PageLimit      int       `mapstructure:"meta_page_limit"`
}

// MetaRetry controla o comportamento de retry das requisições unitárias à Graph API
type MetaRetry struct {
	MaxRetries            int     `mapstructure:"meta_retry_max_retries"`
	InitialBackoffSeconds float64 `mapstructure:"meta_retry_initial_backoff_seconds"`
	ThrottleFloorSeconds  float64 `mapstructure:"meta_retry_throttle_floor_seconds"`
}

// MetaBatch controla o particionamento e o retry das requisições em lote
type MetaBatch struct {
	ChunkSize                     int     `mapstructure:"meta_batch_chunk_size"`
	MaxChunkRetries               int     `mapstructure:"meta_batch_max_chunk_retries"`
	InitialBackoffSeconds         float64 `mapstructure:"meta_batch_initial_backoff_seconds"`
	FallbackMaxRetries            int     `mapstructure:"meta_batch_fallback_max_retries"`
	FallbackInitialBackoffSeconds float64 `mapstructure:"meta_batch_fallback_initial_backoff_seconds"`
	PauseMinSeconds               float64 `mapstructure:"meta_batch_pause_min_seconds"`
	PauseMaxSeconds               float64 `mapstructure:"meta_batch_pause_max_seconds"`
}

// MetaUpload controla o envio de imagens e vídeos e o polling de processamento
type MetaUpload struct {
	VideoPollIntervalSeconds int `mapstructure:"meta_upload_video_poll_interval_seconds"`
	VideoTimeoutSeconds      int `mapstructure:"meta_upload_video_timeout_seconds"`
}

type Clone struct {
	ReportDir string `mapstructure:"clone_report_dir"`
}

type HierarchySync struct {
	CronSchedule string   `mapstructure:"hierarchy_sync_cron"`
	Enabled      bool     `mapstructure:"hierarchy_sync_enabled"`
	SnapshotDir  string   `mapstructure:"hierarchy_sync_snapshot_dir"`
	LookbackDays int      `mapstructure:"hierarchy_sync_lookback_days"`
	AccountIDs   []string `mapstructure:"hierarchy_sync_account_ids"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/cloner")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_URL", "https://graph.facebook.com/v22.0")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "your_app_id")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("META_PAGE_LIMIT", 200)

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	// Defaults de retry para requisições unitárias
	viper.SetDefault("META_RETRY_MAX_RETRIES", 5)
	viper.SetDefault("META_RETRY_INITIAL_BACKOFF_SECONDS", 1.0)
	viper.SetDefault("META_RETRY_THROTTLE_FLOOR_SECONDS", 600.0) // piso quando a conta está estrangulada

	// Defaults de requisições em lote
	viper.SetDefault("META_BATCH_CHUNK_SIZE", 25)
	viper.SetDefault("META_BATCH_MAX_CHUNK_RETRIES", 3)
	viper.SetDefault("META_BATCH_INITIAL_BACKOFF_SECONDS", 2.0)
	viper.SetDefault("META_BATCH_FALLBACK_MAX_RETRIES", 3)
	viper.SetDefault("META_BATCH_FALLBACK_INITIAL_BACKOFF_SECONDS", 5.0)
	viper.SetDefault("META_BATCH_PAUSE_MIN_SECONDS", 1.5)
	viper.SetDefault("META_BATCH_PAUSE_MAX_SECONDS", 5.0)

	// Defaults de upload de mídia
	viper.SetDefault("META_UPLOAD_VIDEO_POLL_INTERVAL_SECONDS", 5)
	viper.SetDefault("META_UPLOAD_VIDEO_TIMEOUT_SECONDS", 600)

	viper.SetDefault("CLONE_REPORT_DIR", "reports")

	// Defaults para sincronização da hierarquia de campanhas
	viper.SetDefault("HIERARCHY_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("HIERARCHY_SYNC_ENABLED", false)
	viper.SetDefault("HIERARCHY_SYNC_SNAPSHOT_DIR", "snapshots")
	viper.SetDefault("HIERARCHY_SYNC_LOOKBACK_DAYS", 1)
	viper.SetDefault("HIERARCHY_SYNC_ACCOUNT_IDS", "")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Info("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
