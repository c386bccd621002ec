package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner    ScannerConfig    `yaml:"scanner"`
	Kalshi     KalshiConfig     `yaml:"kalshi"`
	Sportsbook SportsbookConfig `yaml:"sportsbook"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
}

// ScannerConfig controla el comportamiento del scanner.
type ScannerConfig struct {
	IntervalSeconds    int      `yaml:"interval_seconds"`
	Stake              float64  `yaml:"stake"`
	MinEdge            float64  `yaml:"min_edge"` // %, inclusivo
	Workers            int      `yaml:"workers"`
	CallTimeoutSeconds int      `yaml:"call_timeout_seconds"`
	Keywords           []string `yaml:"keywords"` // filtro de listings de deportes
	MaxPages           int      `yaml:"max_pages"`
}

// KalshiConfig contiene el acceso a la API de Kalshi.
type KalshiConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"` // opcional
}

// SportsbookConfig contiene el acceso a The Odds API.
type SportsbookConfig struct {
	BaseURL   string   `yaml:"base_url"`
	APIKey    string   `yaml:"api_key"`
	Sports    []string `yaml:"sports"`
	Regions   string   `yaml:"regions"`
	Bookmaker string   `yaml:"bookmaker"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta SQLite, ":memory:" o postgres://
}

// RedisConfig activa el dedupe de alertas si Addr no está vacío.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// KafkaConfig activa la publicación de oportunidades si hay brokers.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TelegramConfig activa las alertas por Telegram si hay token y chat.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// HTTPConfig controla la API HTTP (solo con -serve).
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// CallTimeout devuelve el timeout por llamada a una fuente.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Scanner.CallTimeoutSeconds) * time.Second
}

// SeenTTL devuelve la ventana de dedupe de alertas.
func (c *Config) SeenTTL() time.Duration {
	return time.Duration(c.Redis.TTLMinutes) * time.Minute
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("KALSHI_API_KEY"); v != "" {
		cfg.Kalshi.APIKey = v
	}
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		cfg.Sportsbook.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
// Las listas vacías (keywords, sports) quedan vacías: cada adapter aplica las suyas.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 60
	}
	if cfg.Scanner.Stake <= 0 {
		cfg.Scanner.Stake = 10
	}
	if cfg.Scanner.MinEdge == 0 {
		cfg.Scanner.MinEdge = 10
	}
	if cfg.Scanner.Workers <= 0 {
		cfg.Scanner.Workers = 8
	}
	if cfg.Scanner.CallTimeoutSeconds <= 0 {
		cfg.Scanner.CallTimeoutSeconds = 10
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "edgescan.opportunities"
	}
	if cfg.Redis.TTLMinutes <= 0 {
		cfg.Redis.TTLMinutes = 360
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "edgescan.db"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
