// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Env holds the configuration values for the application.
type Env struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens; TokenTTL is how long they stay valid.
	JWTSecret string
	TokenTTL  time.Duration

	// AdminEmail/AdminPassword bootstrap the administrator account: the
	// account is created on first startup and its user ID becomes the one
	// identity allowed to create groups.
	AdminEmail    string
	AdminPassword string

	// MinGroupSize and MinActiveDuration override the lifecycle defaults.
	MinGroupSize      int
	MinActiveDuration time.Duration
}

// MustLoad reads the environment variables and returns an Env struct.
func MustLoad() Env {
	port, _ := strconv.Atoi(get("PORT", "8080"))
	ttlHours, _ := strconv.Atoi(get("TOKEN_TTL_HOURS", "24"))
	minSize, _ := strconv.Atoi(get("MIN_GROUP_SIZE", "10"))
	minActiveHours, _ := strconv.Atoi(get("MIN_ACTIVE_HOURS", "720"))

	return Env{
		Port:              port,
		DBPath:            get("DB_PATH", "./data/tandapay.db"),
		JWTSecret:         must("JWT_SECRET"),
		TokenTTL:          time.Duration(ttlHours) * time.Hour,
		AdminEmail:        must("ADMIN_EMAIL"),
		AdminPassword:     must("ADMIN_PASSWORD"),
		MinGroupSize:      minSize,
		MinActiveDuration: time.Duration(minActiveHours) * time.Hour,
	}
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// must returns the value of the environment variable k or panics if not set.
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic(fmt.Errorf("missing env %s", k))
	}
	return v
}
