package ratelimit

import "strings"

// MatchEndpoint returns the configuration for path and method, or nil when
// the default limit applies. Exact paths win over prefix rules; GET /health
// is never limited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
