// Command issue_token mints a bearer token for local development. Production tokens come from
// the household's identity provider and are signed with the same secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-mealplanner/backend/config"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/service"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/types"
)

func main() {
	userFlag := flag.String("user", "", "User ID to embed in the token (random when empty)")
	role := flag.String("role", types.RoleMember, "Role claim: member or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if *role != types.RoleMember && *role != types.RoleAdmin {
		log.Fatalf("unknown role %q", *role)
	}

	userID := uuid.New()
	if *userFlag != "" {
		parsed, err := uuid.Parse(*userFlag)
		if err != nil {
			log.Fatalf("invalid user ID: %v", err)
		}
		userID = parsed
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env.IsProduction() {
		log.Fatal("refusing to mint tokens in production")
	}

	token, err := service.NewTokenService(cfg.JWTSecret).GenerateToken(userID, *role, *ttl)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Printf("user_id: %s\nrole:    %s\ntoken:   %s\n", userID, *role, token)
}
