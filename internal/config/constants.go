package config

// DefaultDatabasePath is used when DATABASE_PATH is not set.
const DefaultDatabasePath = "./library.db"

// Borrowing policy. The due date is set BorrowDays from the borrow date and
// each extension adds ExtensionDays to the current due date, not to now.
const (
	BorrowDays    = 14
	ExtensionDays = 7

	// ReminderWindowDays is how close a due date has to be before a
	// reminder notification is generated.
	ReminderWindowDays = 2
)
