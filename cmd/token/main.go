// Command token mints a bearer token signed with the configured JWT secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/auth"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to the config file")
	userID := flag.String("user", "", "user id to put in the token")
	role := flag.String("role", auth.RoleUser, "token role: user or admin")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *role != auth.RoleUser && *role != auth.RoleAdmin {
		log.Fatalf("unknown role %q", *role)
	}

	if err := config.LoadEnv(); err != nil {
		log.Printf("WARNING: load .env: %v", err)
	}
	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	token, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()).Issue(*userID, *role)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
