package httputil

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 30 * time.Second

// NewClient returns a resty client with the standard timeout and user agent.
// Retries stay disabled; every fetch is a single attempt.
func NewClient() *resty.Client {
	return resty.New().
		SetTimeout(DefaultTimeout).
		SetHeader("User-Agent", "faixaclima/1.0").
		SetRetryCount(0)
}
