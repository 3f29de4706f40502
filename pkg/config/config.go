package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Originals SDK's service-facing
// components: the resolver HTTP surface, storage backends, the controller's
// signing key, and the Bitcoin/ordinals stack backing did:btco.
type Config struct {
	// Server Configuration
	ListenAddr  string
	MetricsAddr string
	HealthAddr  string

	// Controller Key Configuration
	ControllerKeyType string // Ed25519, Secp256k1 or Bls12381G2
	ControllerKeyPath string // path to the controller's private key file
	DataDir           string // base directory for key and log files

	// Storage Configuration
	StorageBackend string // memory, filesystem, postgres or firestore
	StorageRoot    string // filesystem backend root directory

	// Database Configuration (postgres storage / checkpoint store backend)
	DatabaseURL         string
	DatabaseMaxOpenConns int
	DatabaseMaxIdleConns int
	DatabaseConnMaxLife  time.Duration

	// Firestore Configuration
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirestoreCollection     string

	// Bitcoin/Ordinals Configuration
	BitcoinRPCHost     string
	BitcoinRPCUser     string
	BitcoinRPCPass     string
	BitcoinRPCDisableTLS bool
	BitcoinNetwork     string // mainnet, testnet3, signet or regtest
	OrdinalsIndexerURL string

	// did:webvh Configuration
	WebvhDomain string // domain this process publishes did:webvh logs under

	// Migration/Lifecycle Configuration
	CheckpointTTL time.Duration

	// Batch Execution Configuration
	BatchConcurrency int
	BatchMaxRetries  int

	LogLevel string
}

// Load reads configuration from environment variables, applying the same
// defaults a local developer would want; call Validate before starting a
// service that exposes network-facing operations.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:  getEnv("API_HOST", "0.0.0.0") + ":" + getEnv("API_PORT", "8080"),
		MetricsAddr: getEnv("API_HOST", "0.0.0.0") + ":" + getEnv("METRICS_PORT", "9090"),
		HealthAddr:  getEnv("API_HOST", "0.0.0.0") + ":" + getEnv("HEALTH_CHECK_PORT", "8081"),

		ControllerKeyType: getEnv("CONTROLLER_KEY_TYPE", "Ed25519"),
		ControllerKeyPath: getEnv("CONTROLLER_KEY_PATH", ""),
		DataDir:           getEnv("DATA_DIR", "./data"),

		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),
		StorageRoot:    getEnv("STORAGE_ROOT", "./data/blobs"),

		DatabaseURL:          getEnv("DATABASE_URL", ""),
		DatabaseMaxOpenConns: getEnvInt("DATABASE_MAX_OPEN_CONNS", 25),
		DatabaseMaxIdleConns: getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
		DatabaseConnMaxLife:  getEnvDuration("DATABASE_CONN_MAX_LIFETIME", time.Hour),

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FirestoreCollection:     getEnv("FIRESTORE_COLLECTION", "originals_blobs"),

		BitcoinRPCHost:       getEnv("BITCOIN_RPC_HOST", "localhost:8332"),
		BitcoinRPCUser:       getEnv("BITCOIN_RPC_USER", ""),
		BitcoinRPCPass:       getEnv("BITCOIN_RPC_PASS", ""),
		BitcoinRPCDisableTLS: getEnvBool("BITCOIN_RPC_DISABLE_TLS", true),
		BitcoinNetwork:       getEnv("BITCOIN_NETWORK", "regtest"),
		OrdinalsIndexerURL:   getEnv("ORDINALS_INDEXER_URL", "http://localhost:80"),

		WebvhDomain: getEnv("WEBVH_DOMAIN", ""),

		CheckpointTTL: getEnvDuration("CHECKPOINT_TTL", 24*time.Hour),

		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 4),
		BatchMaxRetries:  getEnvInt("BATCH_MAX_RETRIES", 2),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks that configuration required to run a networked service
// (resolver HTTP surface, did:btco inscription) is present and sane.
func (c *Config) Validate() error {
	var problems []string

	switch c.ControllerKeyType {
	case "Ed25519", "Secp256k1", "Bls12381G2":
	default:
		problems = append(problems, fmt.Sprintf("CONTROLLER_KEY_TYPE %q is not one of Ed25519, Secp256k1, Bls12381G2", c.ControllerKeyType))
	}
	if c.ControllerKeyPath == "" {
		problems = append(problems, "CONTROLLER_KEY_PATH is required but not set")
	}

	switch c.StorageBackend {
	case "memory", "filesystem", "postgres", "firestore":
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND %q is not one of memory, filesystem, postgres, firestore", c.StorageBackend))
	}
	if c.StorageBackend == "postgres" && c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}
	if c.StorageBackend == "firestore" && c.FirebaseProjectID == "" {
		problems = append(problems, "FIREBASE_PROJECT_ID is required when STORAGE_BACKEND=firestore")
	}

	switch c.BitcoinNetwork {
	case "mainnet", "testnet3", "signet", "regtest":
	default:
		problems = append(problems, fmt.Sprintf("BITCOIN_NETWORK %q is not one of mainnet, testnet3, signet, regtest", c.BitcoinNetwork))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// ValidateForDevelopment performs relaxed validation suitable for local
// development against in-memory backends only.
func (c *Config) ValidateForDevelopment() error {
	if c.ControllerKeyType == "" {
		return fmt.Errorf("development configuration validation failed:\n  - CONTROLLER_KEY_TYPE is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
