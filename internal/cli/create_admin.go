// Package cli implements command line subcommands for administrative
// operations that should not go through the HTTP API.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/evasim27/library/internal/auth"
	"github.com/evasim27/library/internal/config"
	"github.com/evasim27/library/internal/database"
	"github.com/evasim27/library/internal/entities"
)

// CreateAdminCommand creates an administrator account directly in the
// database. Useful for bootstrapping a fresh installation.
type CreateAdminCommand struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	DatabasePath string
}

// NewCreateAdminCommand creates a new CreateAdminCommand
func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.FirstName, "first-name", "", "Administrator first name (required)")
	fs.StringVar(&cmd.LastName, "last-name", "", "Administrator last name (required)")
	fs.StringVar(&cmd.Email, "email", "", "Administrator email (required)")
	fs.StringVar(&cmd.Password, "password", "", "Administrator password (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -first-name Ada -last-name Lovelace -email ada@example.com -password secret123\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FirstName == "" || cmd.LastName == "" || cmd.Email == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("first-name, last-name, email and password are required")
	}

	return nil
}

// Run executes the command
func (cmd *CreateAdminCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.CreateUser(cmd.FirstName, cmd.LastName, cmd.Email, cmd.Password, entities.UserRoleAdmin)
	if err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}

	fmt.Printf("Administrator account created: %s %s <%s> (id %d)\n",
		user.FirstName, user.LastName, user.Email, user.ID)
	return nil
}
