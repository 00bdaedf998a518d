package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/petclinic/petclinic/internal/auth"
	"github.com/petclinic/petclinic/internal/model"
	"github.com/petclinic/petclinic/internal/repository"
)

type output struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Enabled  bool     `json:"enabled"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "admin", "Username for the bootstrap account")
		password    = flag.String("password", "", "Password for the bootstrap account (required)")
		rolesInput  = flag.String("roles", model.RoleAdmin, "Comma-separated roles (owner_admin,vet_admin,admin)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}

	roles, err := parseRoles(*rolesInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user := &model.User{
		Username:     *username,
		PasswordHash: hash,
		Enabled:      true,
		Roles:        roles,
	}

	if err := repo.SaveUser(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "save user:", err)
		os.Exit(1)
	}

	out := output{
		Username: user.Username,
		Roles:    user.Roles,
		Enabled:  user.Enabled,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Printf("%s (%s)\n", out.Username, strings.Join(out.Roles, ","))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func parseRoles(input string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return []string{model.RoleAdmin}, nil
	}
	parts := strings.Split(input, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		role := strings.ToLower(strings.TrimSpace(part))
		if role == "" {
			continue
		}
		if !model.IsValidRole(role) {
			return nil, fmt.Errorf("invalid role: %s", role)
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		roles = []string{model.RoleAdmin}
	}
	return roles, nil
}
