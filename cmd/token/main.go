// Command token prints a signed access token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id to put in the user_id claim")
	role := flag.String("role", string(user.RoleEmployee), "role claim: owner, admin, manager or employee")
	flag.Parse()

	if *userID == "" || !user.IsValidRole(*role) {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, user.Role(*role))
	if err != nil {
		slog.Error("Failed to sign token", "error", err)
		os.Exit(1)
	}

	slog.Info("Token issued", "user_id", *userID, "role", *role, "expires_at", expiresAt)
	fmt.Println(token)
}
