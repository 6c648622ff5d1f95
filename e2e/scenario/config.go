package scenario

import (
	"net/http"
	"time"
)

// Config holds the gateway address and the paths the scenarios exercise.
type Config struct {
	// GatewayURL is the gateway base URL, e.g. http://localhost:8080.
	GatewayURL string
	// EchoPath is a protected route whose backend answers with JSON {instance, subject}.
	EchoPath string
	// UnavailablePath is a protected route whose service has no registered instances.
	UnavailablePath string
	// MinEchoInstances is how many distinct echo instances round_robin expects to see; below 2 it is skipped.
	MinEchoInstances int
	// Client is used for every request; nil means a client with a 10s timeout.
	Client *http.Client
}

func (c *Config) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}
