package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nurulquran/academy-backend/internal/config"
	"github.com/nurulquran/academy-backend/internal/database"
	"github.com/nurulquran/academy-backend/internal/logger"
	"github.com/nurulquran/academy-backend/internal/model"
	"github.com/nurulquran/academy-backend/internal/repository"
	"github.com/nurulquran/academy-backend/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Component(logger.Setup(cfg.LogLevel, cfg.LogFormat), "create-user")

	if cfg.UsesMemoryStore() {
		log.Fatal().Msg("STORE_DRIVER=memory keeps no users between runs; use BOOTSTRAP_ADMIN_* instead")
	}

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	authService := service.NewAuthService(cfg, repository.NewUserRepository(pool), log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create or Reset Portal User ===")

	name := prompt(reader, "Enter Name: ")
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	email := prompt(reader, "Enter Email: ")
	if !strings.Contains(email, "@") {
		fmt.Println("Error: a valid Email is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	role := model.Role(strings.ToLower(prompt(reader, "Enter Role [admin|teacher|student|parent] (default admin): ")))
	if role == "" {
		role = model.RoleAdmin
	}
	if !role.Valid() {
		fmt.Printf("Error: unknown role %q\n", role)
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := authService.EnsureUser(ctx, email, name, password, role)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to save user")
	}

	fmt.Printf("\nSuccess! %s '%s' (%s) saved with ID: %s\n", user.Role, user.Name, user.Email, user.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
