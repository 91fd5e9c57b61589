// Package main provisions user accounts for the bench API. The service has
// no registration flow; accounts are created out-of-band with this tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/benchmarked/api/internal/db"
	"github.com/benchmarked/api/internal/models"
)

func main() {
	dsn := flag.String("d", "", "db address")
	username := flag.String("u", "", "username to create")
	role := flag.String("r", string(models.RoleUser), "role (admin or user)")
	flag.Parse()

	if *dsn == "" || *username == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *role != string(models.RoleAdmin) && *role != string(models.RoleUser) {
		log.Fatalf("invalid role %q: must be admin or user", *role)
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	if len(pw) == 0 {
		log.Fatal("password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword(pw, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	conn, err := db.InitPostgres(ctx, *dsn)
	if err != nil {
		log.Fatalf("cannot init database: %v", err)
	}
	defer conn.Close()

	id := uuid.NewString()
	_, err = conn.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, id, *username, string(hash), *role)
	if err != nil {
		log.Fatalf("failed to create user: %v", err)
	}

	fmt.Printf("Created user %s (%s) with id %s\n", *username, *role, id)
}
