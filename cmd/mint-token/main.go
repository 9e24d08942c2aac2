// Command mint-token issues a development bearer token signed with JWT_SECRET.
// Production tokens come from the hosted identity service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/helmhq/helm/ai-gateway/internal/auth"
	"github.com/joho/godotenv"
)

const maxTTL = 30 * 24 * time.Hour

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._@:-]+$`)

type tokenEnv struct {
	JWTSecret   string `env:"JWT_SECRET,notEmpty"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

func main() {
	userID := flag.String("user-id", "", "User id placed in the token (required unless -refresh)")
	username := flag.String("username", "", "Display name placed in the token")
	roles := flag.String("roles", "member", "Comma separated roles")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	refresh := flag.String("refresh", "", "Existing token to re-issue with a new lifetime instead of minting")
	flag.Parse()

	if err := validateInputs(*userID, *refresh, *ttl); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(2)
	}

	_ = godotenv.Load(".env.local")

	var cfg tokenEnv
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
		os.Exit(1)
	}

	jm, err := auth.NewJWTManager(cfg.JWTSecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize JWT manager: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *refresh != "" {
		token, err := jm.RefreshToken(ctx, *refresh, *ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to refresh token: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Refreshed token (environment %s) expires in %s\n", cfg.Environment, *ttl)
		fmt.Println(token)
		return
	}

	token, err := jm.GenerateToken(ctx, *userID, *username, splitRoles(*roles), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Token for %s (environment %s) expires in %s\n", *userID, cfg.Environment, *ttl)
	fmt.Println(token)
}

func validateInputs(userID, refresh string, ttl time.Duration) error {
	if ttl <= 0 || ttl > maxTTL {
		return fmt.Errorf("ttl must be between 0 and %s, got %s", maxTTL, ttl)
	}
	if refresh != "" {
		if userID != "" {
			return fmt.Errorf("user-id and refresh are mutually exclusive")
		}
		return nil
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user-id is required")
	}
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid user-id: %q", userID)
	}
	return nil
}

func splitRoles(raw string) []string {
	var roles []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
