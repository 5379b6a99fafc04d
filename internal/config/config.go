package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                      string
	VerifyToken               string
	WhatsAppToken             string
	PhoneNumberID             string
	WhatsAppBusinessAccountID string
	GraphAPIURL               string
	GraphAPIVersion           string
	WhatsAppTimeout           time.Duration

	// StoreDriver is one of memory, sqlite or postgres
	StoreDriver string
	DBPath      string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	LogOutgoing         bool
	LogWindow           int
	DeliveryConcurrency int
	AgentFile           string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:                      getEnv("PORT", "8080"),
		VerifyToken:               getEnv("VERIFY_TOKEN", getEnv("WHATSAPP_VERIFY_TOKEN", "")),
		WhatsAppToken:             getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:             getEnv("PHONE_NUMBER_ID", getEnv("WHATSAPP_PHONE_NUMBER_ID", "")),
		WhatsAppBusinessAccountID: getEnv("WABA_ID", ""),
		GraphAPIURL:               getEnv("GRAPH_API_URL", "https://graph.facebook.com"),
		GraphAPIVersion:           getEnv("GRAPH_API_VERSION", "v19.0"),
		WhatsAppTimeout:           getEnvDuration("WHATSAPP_TIMEOUT", 10*time.Second),
		StoreDriver:               getEnv("STORE_DRIVER", "sqlite"),
		DBPath:                    getEnv("DB_PATH", "./autoreply.db"),
		DBHost:                    getEnv("DB_HOST", "localhost"),
		DBPort:                    getEnv("DB_PORT", "5432"),
		DBUser:                    getEnv("DB_USER", "postgres"),
		DBPassword:                getEnv("DB_PASSWORD", ""),
		DBName:                    getEnv("DB_NAME", "autoreply"),
		DBSSLMode:                 getEnv("DB_SSLMODE", "disable"),
		LogOutgoing:               getEnvBool("LOG_OUTGOING", true),
		LogWindow:                 getEnvInt("LOG_WINDOW", 50),
		DeliveryConcurrency:       getEnvInt("DELIVERY_CONCURRENCY", 8),
		AgentFile:                 getEnv("AGENT_FILE", ""),
	}
}

// EnvStatus reports which provider credentials are present
type EnvStatus struct {
	TokenConfigured  bool `json:"tokenConfigured"`
	PhoneConfigured  bool `json:"phoneConfigured"`
	VerifyConfigured bool `json:"verifyConfigured"`
}

func (c *Config) Status() EnvStatus {
	return EnvStatus{
		TokenConfigured:  c.WhatsAppToken != "",
		PhoneConfigured:  c.PhoneNumberID != "",
		VerifyConfigured: c.VerifyToken != "",
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
