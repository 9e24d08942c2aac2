package httpclient

import "time"

type Option func(*config)

func WithConnTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.connTimeout = timeout
	}
}

// WithRequestTimeout bounds the whole exchange including reading the body.
// Zero disables the client-level timeout and leaves cancellation to the context.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.requestTimeout = timeout
	}
}

func WithKeepAlive(keepAlive time.Duration) Option {
	return func(c *config) {
		c.keepAlive = keepAlive
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.idleConnTimeout = timeout
	}
}

func WithMaxIdleConnsPerHost(n int) Option {
	return func(c *config) {
		c.maxIdleConnsPerHost = n
	}
}

func WithTransport(transport TransportFunc) Option {
	return func(c *config) {
		c.transports = append(c.transports, transport)
	}
}

// WithMaxResponseBytes caps how much of a response body is read
func WithMaxResponseBytes(n int64) Option {
	return func(c *config) {
		c.maxResponseBytes = n
	}
}
