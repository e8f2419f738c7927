package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dwarvesf/arkswap/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Database    DBConnection
	Bitcoin     BitcoinConfig
	SwapAPI     SwapAPIConfig
	Wallet      WalletConfig
	Vault       VaultConfig
	Funding     FundingConfig
	Jobs        JobsConfig
}

type JobsConfig struct {
	SyncPeriod    string
	RefreshPeriod string
	UptimeHook    string
}

type ApiServerConfig struct {
	Port           string
	AllowedOrigins string
}

type DBConnection struct {
	// Driver is "postgres" or "sqlite".
	Driver     string
	SQLitePath string

	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type BitcoinConfig struct {
	// Network is one of mainnet, testnet, signet, regtest.
	Network           string
	BlockstreamAPIURL string
}

type SwapAPIConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

type WalletConfig struct {
	BaseURL string
	WSURL   string
}

type VaultConfig struct {
	Addr        string
	Role        string
	KVPath      string
	APIKeyField string
}

type FundingConfig struct {
	WaitTimeout time.Duration
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Parse(env),
		ApiServer: ApiServerConfig{
			Port:           envVarOrDefault("SERVER_PORT", "8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Database: DBConnection{
			Driver:     envVarOrDefault("DB_DRIVER", "postgres"),
			SQLitePath: envVarOrDefault("SQLITE_PATH", "arkswap.db"),
			Host:       os.Getenv("DB_HOST"),
			Port:       os.Getenv("DB_PORT"),
			User:       os.Getenv("DB_USER"),
			Name:       os.Getenv("DB_NAME"),
			Pass:       os.Getenv("DB_PASS"),
			SSLMode:    envVarOrDefault("DB_SSL_MODE", "disable"),
		},
		Bitcoin: BitcoinConfig{
			Network:           envVarOrDefault("BTC_NETWORK", "mainnet"),
			BlockstreamAPIURL: envVarOrDefault("BTC_BLOCKSTREAM_API_URL", "https://blockstream.info/api"),
		},
		SwapAPI: SwapAPIConfig{
			BaseURL:    os.Getenv("SWAP_API_URL"),
			APIKey:     os.Getenv("SWAP_API_KEY"),
			Timeout:    time.Duration(envVarAtoiOrDefault("SWAP_API_TIMEOUT_SECONDS", 15)) * time.Second,
			MaxRetries: envVarAtoiOrDefault("SWAP_API_MAX_RETRIES", 3),
		},
		Wallet: WalletConfig{
			BaseURL: os.Getenv("WALLET_API_URL"),
			WSURL:   os.Getenv("WALLET_WS_URL"),
		},
		Vault: VaultConfig{
			Addr:        os.Getenv("VAULT_ADDR"),
			Role:        os.Getenv("VAULT_ROLE"),
			KVPath:      os.Getenv("VAULT_KV_PATH"),
			APIKeyField: envVarOrDefault("VAULT_SWAP_API_KEY_FIELD", "swap_api_key"),
		},
		Funding: FundingConfig{
			WaitTimeout: time.Duration(envVarAtoiOrDefault("FUNDING_WAIT_TIMEOUT_SECONDS", 300)) * time.Second,
		},
		Jobs: JobsConfig{
			SyncPeriod:    envVarOrDefault("SYNC_PERIOD", "@every 2m"),
			RefreshPeriod: envVarOrDefault("PENDING_REFRESH_PERIOD", "@every 30s"),
			UptimeHook:    os.Getenv("UPTIME_WEBHOOK_URL"),
		},
	}
}

func envVarOrDefault(envName, fallback string) string {
	if value := os.Getenv(envName); value != "" {
		return value
	}

	return fallback
}

func envVarAtoiOrDefault(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		panic(err)
	}

	return value
}
