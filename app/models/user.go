package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	STATUS_ACTIVE   = "active"
	STATUS_DISABLED = "disabled"
)

// User is a signed-in account. Sign-in happens through OAuth providers only,
// so there is no password column.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PublicID    string         `gorm:"type:varchar(36);uniqueIndex" json:"public_id" validate:"required,uuid4"`
	FirstName   string         `gorm:"type:varchar(100)" json:"first_name" validate:"max=100"`
	Name        string         `gorm:"type:varchar(150)" json:"name" validate:"required,max=150"`
	Email       string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	AvatarURL   string         `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"max=255"`
	Plan        string         `gorm:"type:varchar(20);not null;default:'Basic'" json:"plan" validate:"oneof=Basic Premium Enterprise"`
	Status      string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active disabled"`
	LastLoginAt *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NewOAuthUser builds an active user from provider profile data.
func NewOAuthUser(firstName, name, email, avatarURL string) (*User, error) {
	u := &User{
		PublicID:  uuid.New().String(),
		FirstName: strings.TrimSpace(firstName),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		AvatarURL: avatarURL,
		Plan:      "Basic",
		Status:    STATUS_ACTIVE,
	}
	if u.FirstName == "" {
		u.FirstName = firstWord(u.Name)
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// DisplayName returns the greeting name used on the billing dashboard.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Name
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}
