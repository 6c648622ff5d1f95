package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"edgemesh/helpers"
	"edgemesh/token"

	"golang.org/x/crypto/bcrypt"
)

const (
	envHTTPPort          = "SERVICE_PORT_HTTP"
	envRedisURL          = "REDIS_URL"
	envRedisPoolSize     = "REDIS_POOL_SIZE"
	envJWTSecret         = "JWT_SECRET"
	envTokenTTL          = "TOKEN_TTL"
	envBcryptCost        = "BCRYPT_COST"
	envLoginRate         = "LOGIN_RATE_PER_MINUTE"
	envLoginBurst        = "LOGIN_BURST"
	envRegistryURL       = "REGISTRY_URL"
	envServiceName       = "SERVICE_NAME"
	envInstanceID        = "INSTANCE_ID"
	envAdvertiseHost     = "ADVERTISE_HOST"
	envHeartbeatInterval = "HEARTBEAT_INTERVAL"
)

// AuthConfig is the auth service configuration.
type AuthConfig struct {
	HTTPPort      int
	RedisURL      string
	RedisPoolSize int
	SigningKey    []byte
	TokenTTL      time.Duration
	BcryptCost    int

	LoginRatePerMinute float64
	LoginBurst         int

	// RegistryURL is empty when the service does not self-register.
	RegistryURL       string
	ServiceName       string
	InstanceID        string
	AdvertiseHost     string
	HeartbeatInterval time.Duration
}

// LoadConfig reads the configuration through getenv.
//
// Required: SERVICE_PORT_HTTP, JWT_SECRET. Defaults: REDIS_URL redis://localhost:6379, TOKEN_TTL 1h,
// BCRYPT_COST bcrypt.DefaultCost, LOGIN_RATE_PER_MINUTE 10, LOGIN_BURST 5, SERVICE_NAME auth-service,
// ADVERTISE_HOST the hostname, INSTANCE_ID {host}-{port}, HEARTBEAT_INTERVAL 10s.
func LoadConfig(getenv helpers.Getenv) (*AuthConfig, error) {
	httpPort, err := helpers.RequiredPort(getenv, envHTTPPort)
	if err != nil {
		return nil, err
	}

	signingKey, err := token.LoadSigningKey(getenv(envJWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envJWTSecret, err)
	}

	tokenTTL, err := helpers.EnvDuration(getenv, envTokenTTL, time.Hour)
	if err != nil {
		return nil, err
	}
	if tokenTTL == 0 {
		return nil, fmt.Errorf("%s must be positive", envTokenTTL)
	}

	cost, err := helpers.EnvInt(getenv, envBcryptCost, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid %s: %d not in %d..%d", envBcryptCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	rate, err := helpers.EnvFloat(getenv, envLoginRate, 10)
	if err != nil {
		return nil, err
	}
	burst, err := helpers.EnvInt(getenv, envLoginBurst, 5)
	if err != nil {
		return nil, err
	}
	if rate <= 0 || burst <= 0 {
		return nil, fmt.Errorf("%s and %s must be positive", envLoginRate, envLoginBurst)
	}

	poolSize, err := helpers.EnvInt(getenv, envRedisPoolSize, 0)
	if err != nil {
		return nil, err
	}

	heartbeat, err := helpers.EnvDuration(getenv, envHeartbeatInterval, 10*time.Second)
	if err != nil {
		return nil, err
	}
	if heartbeat == 0 {
		return nil, fmt.Errorf("%s must be positive", envHeartbeatInterval)
	}

	host := getenv(envAdvertiseHost)
	if host == "" {
		if host, err = os.Hostname(); err != nil {
			return nil, fmt.Errorf("%s not set and hostname unavailable: %w", envAdvertiseHost, err)
		}
	}

	return &AuthConfig{
		HTTPPort:           httpPort,
		RedisURL:           helpers.EnvString(getenv, envRedisURL, "redis://localhost:6379"),
		RedisPoolSize:      poolSize,
		SigningKey:         signingKey,
		TokenTTL:           tokenTTL,
		BcryptCost:         cost,
		LoginRatePerMinute: rate,
		LoginBurst:         burst,
		RegistryURL:        strings.TrimRight(getenv(envRegistryURL), "/"),
		ServiceName:        helpers.EnvString(getenv, envServiceName, "auth-service"),
		InstanceID:         helpers.EnvString(getenv, envInstanceID, host+"-"+strconv.Itoa(httpPort)),
		AdvertiseHost:      host,
		HeartbeatInterval:  heartbeat,
	}, nil
}
