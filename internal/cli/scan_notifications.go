package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/evasim27/library/internal/config"
	"github.com/evasim27/library/internal/database"
	"github.com/evasim27/library/internal/database/books"
	"github.com/evasim27/library/internal/database/notifications"
	"github.com/evasim27/library/internal/database/users"
	"github.com/evasim27/library/internal/notifier"
)

// ScanNotificationsCommand runs a one-off due-date notification scan.
type ScanNotificationsCommand struct {
	DatabasePath string
	Verbose      bool
}

// NewScanNotificationsCommand creates a new ScanNotificationsCommand
func NewScanNotificationsCommand() *ScanNotificationsCommand {
	return &ScanNotificationsCommand{}
}

// ParseFlags parses command line flags
func (cmd *ScanNotificationsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("scan-notifications", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s scan-notifications [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scan borrowed books and create due-date reminder and overdue notifications.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the command
func (cmd *ScanNotificationsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if cmd.Verbose {
		fmt.Printf("Scanning %s for due and overdue books\n", cmd.DatabasePath)
	}

	generator := notifier.NewGenerator(
		books.NewRepository(db.DB),
		users.NewRepository(db.DB),
		notifications.NewRepository(db.DB),
	)

	result, err := generator.Scan(time.Now())
	if err != nil {
		return fmt.Errorf("scan due dates: %w", err)
	}

	fmt.Printf("Created %d reminder(s) and %d overdue notice(s)\n",
		result.RemindersCreated, result.OverdueCreated)
	return nil
}
