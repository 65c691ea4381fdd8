package customHttpClient

import (
	"net/http"

	"github.com/akolanti/studypadi/internal/config"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// PooledClient shares one keep-alive transport across outbound AI calls.
// Deadlines come from the caller's context, not from the client.
func PooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
