package entities

import (
	"time"
)

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleLibrarian UserRole = "librarian"
	UserRoleAdmin     UserRole = "admin"
)

type BookStatus string

const (
	BookStatusAvailable BookStatus = "Available"
	BookStatusBorrowed  BookStatus = "Borrowed"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusConfirmed ReservationStatus = "Confirmed"
	ReservationStatusCancelled ReservationStatus = "Cancelled"
)

type NotificationType string

const (
	NotificationTypeReminder NotificationType = "reminder"
	NotificationTypeOverdue  NotificationType = "overdue"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	FirstName    string   `gorm:"size:50" json:"first_name"`
	LastName     string   `gorm:"size:50" json:"last_name"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string   `gorm:"size:255" json:"-"`
	Role         UserRole `gorm:"size:20;default:'user'" json:"role"`
	Blocked      bool     `gorm:"default:false" json:"blocked"`

	// Notification preferences. Both default to enabled.
	DueDateReminders bool `gorm:"default:true" json:"due_date_reminders"`
	OverdueNotices   bool `gorm:"default:true" json:"overdue_notices"`

	// Login bookkeeping
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	FailedLoginCount int        `gorm:"default:0" json:"-"`
	LockedUntil      *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"index;size:200" json:"title"`
	Author          string     `gorm:"index;size:100" json:"author"`
	Description     string     `gorm:"type:text" json:"description"`
	Category        string     `gorm:"index;size:100" json:"category"`
	Status          BookStatus `gorm:"size:20;default:'Available'" json:"status"`
	CoverImage      string     `gorm:"size:2048" json:"cover_image,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	ISBN            string     `gorm:"size:20" json:"isbn,omitempty"`

	// Borrow state. Status is Borrowed exactly when BorrowedByID is set,
	// and DueDate is set exactly when Status is Borrowed.
	BorrowedByID *uint      `gorm:"index" json:"borrowed_by,omitempty"`
	BorrowedBy   *User      `gorm:"foreignKey:BorrowedByID" json:"-"`
	BorrowedDate *time.Time `json:"borrowed_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	// Single-slot reservation held directly on the book. Independent of the
	// Reservation rows managed through the reservations API.
	ReservedByID *uint      `gorm:"index" json:"reserved_by,omitempty"`
	ReservedBy   *User      `gorm:"foreignKey:ReservedByID" json:"-"`
	ReservedDate *time.Time `json:"reserved_date,omitempty"`

	// Derived from the reviews table on every review write.
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	ReviewCount   int     `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Reservation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	UserID          uint              `gorm:"index:idx_reservations_user_status" json:"user_id"`
	BookID          uint              `gorm:"index:idx_reservations_book_status" json:"book_id"`
	Status          ReservationStatus `gorm:"size:20;default:'Pending';index:idx_reservations_user_status;index:idx_reservations_book_status" json:"status"`
	ReservationDate time.Time         `json:"reservation_date"`
	User            User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book            Book              `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"uniqueIndex:idx_reviews_book_user" json:"book_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_reviews_book_user" json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `gorm:"size:1000" json:"comment"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book      Book      `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"index" json:"user_id"`
	BookID    uint             `gorm:"index" json:"book_id"`
	Type      NotificationType `gorm:"size:20" json:"type"`
	Message   string           `gorm:"size:500" json:"message"`
	Read      bool             `gorm:"default:false" json:"read"`
	User      User             `gorm:"foreignKey:UserID" json:"-"`
	Book      Book             `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Reservation) TableName() string {
	return "reservations"
}

func (Review) TableName() string {
	return "reviews"
}

func (Notification) TableName() string {
	return "notifications"
}
