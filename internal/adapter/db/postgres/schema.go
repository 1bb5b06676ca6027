package postgres

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/eniomcosta/gobarber/internal/domain/user"
)

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID       int64       `gorm:"primaryKey;autoIncrement"` // Unique identifier with auto-increment
	Name     string      `gorm:"not null"`                 // User's full name (required)
	Email    string      `gorm:"not null;unique"`          // User's unique email address (required, unique)
	Provider bool        `gorm:"not null;default:false"`   // Whether the user may receive bookings
	AvatarID *int64      // Optional reference to the user's avatar file
	Avatar   *FileSchema `gorm:"foreignKey:AvatarID"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// FileSchema represents the database schema for the files table.
type FileSchema struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"not null"` // Original upload name
	Path string `gorm:"not null"` // Storage path, unique per upload
}

// TableName specifies the table name for the FileSchema model.
func (FileSchema) TableName() string {
	return "files"
}

// AppointmentSchema represents the database schema for the appointments table.
// Availability is enforced by a partial unique index on (provider_id, date)
// over non-canceled rows, created in Migrate.
type AppointmentSchema struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	Date       time.Time  `gorm:"not null;index"`
	UserID     int64      `gorm:"not null;index"`
	ProviderID int64      `gorm:"not null;index"`
	CanceledAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	User       *UserSchema `gorm:"foreignKey:UserID"`
	Provider   *UserSchema `gorm:"foreignKey:ProviderID"`
}

// TableName specifies the table name for the AppointmentSchema model.
func (AppointmentSchema) TableName() string {
	return "appointments"
}

// NotificationSchema represents the database schema for the notifications table.
type NotificationSchema struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Content   string `gorm:"not null"`
	UserID    int64  `gorm:"not null;index"` // The provider the notification belongs to
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName specifies the table name for the NotificationSchema model.
func (NotificationSchema) TableName() string {
	return "notifications"
}

// Migrate creates all tables and the availability constraint.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&FileSchema{}, &UserSchema{}, &AppointmentSchema{}, &NotificationSchema{}); err != nil {
		return err
	}

	// One active booking per provider per slot. The insert that loses a
	// check-then-act race fails here instead of producing a double booking.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_appointments_provider_slot
		 ON appointments (provider_id, date) WHERE canceled_at IS NULL`,
	).Error
}

// isUniqueViolation reports whether err comes from a violated unique
// constraint. GORM translates driver errors when TranslateError is on;
// the string checks cover drivers that do not translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if strings.Contains(err.Error(), "duplicate key value") {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// fileToDomain maps a file row to the domain entity, resolving the public
// URL from the configured files base URL.
func fileToDomain(f *FileSchema, baseURL string) *user.File {
	if f == nil {
		return nil
	}
	return &user.File{
		ID:   f.ID,
		Path: f.Path,
		URL:  strings.TrimRight(baseURL, "/") + "/" + f.Path,
	}
}

// userToDomain maps a user row to the domain entity.
func userToDomain(u *UserSchema, baseURL string) *user.User {
	if u == nil {
		return nil
	}
	return &user.User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Provider: u.Provider,
		Avatar:   fileToDomain(u.Avatar, baseURL),
	}
}
