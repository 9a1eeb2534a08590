package config

import (
	"os"
	"strings"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// Addr is the listen address built from APP_PORT, ":8080" by default.
func Addr() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// AllowedOrigins lists CORS_ALLOWED_ORIGINS (comma separated). Empty means
// any origin.
func AllowedOrigins() []string {
	v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS")
	if !ok {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
