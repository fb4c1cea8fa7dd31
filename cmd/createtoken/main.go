package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hrmplatform.com/hrm/infrastructure/devops"
	"hrmplatform.com/hrm/security"
)

// createtoken prints a session token for local testing of the protected endpoints.
func main() {
	email := flag.String("email", "", "work email the token asserts")
	id := flag.Uint("id", 0, "employee id")
	name := flag.String("name", "", "full name")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		os.Exit(2)
	}

	cfg, err := devops.Load(os.Getenv("HRM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	token, err := security.CreateIdentityToken(&security.Identity{
		EmployeeID: *id,
		FullName:   *name,
		Email:      *email,
	}, cfg.Auth.SigningKey(), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
