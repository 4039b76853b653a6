package api

// Default server configuration constants.
const (
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
	defaultMaxBodyBytes   = 1 << 20
)

type serverConfig struct {
	rateLimitRPS   float64
	rateLimitBurst int
	maxBodyBytes   int64
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		rateLimitRPS:   defaultRateLimitRPS,
		rateLimitBurst: defaultRateLimitBurst,
		maxBodyBytes:   defaultMaxBodyBytes,
	}
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

// WithRateLimit bounds team generation requests per second with the given
// burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *serverConfig) {
		if rps > 0 && burst > 0 {
			c.rateLimitRPS = rps
			c.rateLimitBurst = burst
		}
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}
