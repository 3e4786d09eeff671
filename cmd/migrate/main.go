// Command to initialize the SQLite database and seed the first admin user
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/landylawliet99-blip/api-blog/internal/config"
	"github.com/landylawliet99-blip/api-blog/internal/model"
	"github.com/landylawliet99-blip/api-blog/internal/store"
)

const version = "1.0.0"

func main() {
	dataDir := flag.String("dir", "", "Data directory (defaults to DATA_DIR)")
	versionFlag := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("migrate version %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	dir := cfg.DataDir
	if *dataDir != "" {
		dir = *dataDir
	}

	// Opening the store runs the schema migration.
	st, err := store.NewSQLite(dir)
	if err != nil {
		fmt.Printf("error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	fmt.Printf("database ready in %s\n", dir)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("ADMIN_EMAIL / ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	if _, err := st.GetUserByEmail(email); err == nil {
		fmt.Printf("admin %s already exists, nothing to do\n", email)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("error: failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := st.CreateUser(user); err != nil {
		fmt.Printf("error: failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded admin %s (%s)\n", user.Email, user.ID)
}
