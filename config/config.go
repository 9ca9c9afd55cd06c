package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime knob of the server. Values come from the
// environment with the BOTSPOT_ prefix (e.g. BOTSPOT_LISTEN_ADDR).
type Config struct {
	ListenAddr     string
	AllowedOrigins []string
	JWTKey         string
	AIEndpoint     string
	AITimeout      time.Duration
	Debug          bool
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOTSPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":5000")
	v.SetDefault("allowed_origins", "http://localhost:3000")
	v.SetDefault("ai_timeout", 15*time.Second)
	v.SetDefault("debug", false)

	cfg := &Config{
		ListenAddr:     v.GetString("listen_addr"),
		AllowedOrigins: strings.Split(v.GetString("allowed_origins"), ","),
		JWTKey:         v.GetString("jwt_key"),
		AIEndpoint:     v.GetString("ai_endpoint"),
		AITimeout:      v.GetDuration("ai_timeout"),
		Debug:          v.GetBool("debug"),
	}

	if cfg.JWTKey == "" {
		return nil, errors.New("missing jwt signing key (BOTSPOT_JWT_KEY)")
	}

	return cfg, nil
}
