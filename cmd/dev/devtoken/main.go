package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"roombooking/pkg/authtoken"
	"roombooking/pkg/config"
)

// Prints a bearer token for local testing, signed with AUTH_JWT_SECRET.
func main() {
	var (
		userID = flag.String("user", "", "user id (token subject)")
		email  = flag.String("email", "", "email claim")
		ttl    = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "missing -user")
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to mint tokens with APP_ENV=prod")
		os.Exit(2)
	}

	tok, err := authtoken.Sign(*userID, *email, cfg.Auth.JWTSecret, cfg.Auth.JWTAudience, *ttl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
