package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	JWT     JWTConfig
	Siwe    SiweConfig
	ICE     ICEConfig
	Rooms   RoomConfig
	RPC     RPCConfig
	Monitor MonitorConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

// SiweConfig points at the external Sign-In-With-Ethereum verification
// service. The backend never checks signatures itself.
type SiweConfig struct {
	VerifyURL string
	Timeout   time.Duration
	NonceTTL  time.Duration
}

// ICEConfig holds the STUN/TURN settings handed to every room at creation.
// URL lists are comma-separated.
type ICEConfig struct {
	StunURLs       string
	TurnURLs       string
	TurnUsername   string
	TurnCredential string
}

type RoomConfig struct {
	// Retention is how long a room may exist before the janitor evicts it,
	// occupied or not.
	Retention     time.Duration
	SweepInterval time.Duration
	// ChatRateLimit messages per ChatRateWindow, per sender address.
	ChatRateLimit  int
	ChatRateWindow time.Duration
}

type RPCConfig struct {
	NodeURL string
	Timeout time.Duration
}

// MonitorConfig drives the standalone balance-monitor command.
type MonitorConfig struct {
	RPCURL           string
	Wallets          string // comma-separated addresses
	ThresholdWei     string // decimal wei
	Interval         time.Duration
	DiscordToken     string
	DiscordChannelID string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8088"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		JWT: JWTConfig{
			AccessSecret: getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			AccessExpiry: getenvDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
			Issuer:       getenv("JWT_ISSUER", "mentorly"),
		},
		Siwe: SiweConfig{
			VerifyURL: getenv("SIWE_VERIFY_URL", "http://localhost:8091/siwe/verify"),
			Timeout:   getenvDuration("SIWE_VERIFY_TIMEOUT", 5*time.Second),
			NonceTTL:  getenvDuration("SIWE_NONCE_TTL", 5*time.Minute),
		},
		ICE: ICEConfig{
			StunURLs:       getenv("STUN_URLS", "stun:stun.l.google.com:19302"),
			TurnURLs:       getenv("TURN_URLS", ""),
			TurnUsername:   getenv("TURN_USERNAME", ""),
			TurnCredential: getenv("TURN_CREDENTIAL", ""),
		},
		Rooms: RoomConfig{
			Retention:      getenvDuration("ROOM_RETENTION", 24*time.Hour),
			SweepInterval:  getenvDuration("ROOM_SWEEP_INTERVAL", time.Hour),
			ChatRateLimit:  getenvInt("CHAT_RATE_LIMIT", 10),
			ChatRateWindow: getenvDuration("CHAT_RATE_WINDOW", 10*time.Second),
		},
		RPC: RPCConfig{
			NodeURL: getenv("RPC_NODE_URL", "https://arb1.arbitrum.io/rpc"),
			Timeout: getenvDuration("RPC_TIMEOUT", 15*time.Second),
		},
		Monitor: MonitorConfig{
			RPCURL:           getenv("MONITOR_RPC_URL", "https://arb1.arbitrum.io/rpc"),
			Wallets:          getenv("MONITOR_WALLETS", ""),
			ThresholdWei:     getenv("MONITOR_THRESHOLD_WEI", "100000000000000000"), // 0.1 ETH
			Interval:         getenvDuration("MONITOR_INTERVAL", 10*time.Minute),
			DiscordToken:     getenv("DISCORD_BOT_TOKEN", ""),
			DiscordChannelID: getenv("DISCORD_CHANNEL_ID", ""),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
