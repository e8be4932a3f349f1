package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Username     string    `bun:"username,notnull" json:"username"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	IDType       string    `bun:"id_type,notnull" json:"id_type"`
	IDCard       string    `bun:"id_card,notnull" json:"id_card"`
	RealName     string    `bun:"real_name,notnull" json:"real_name"`
	Phone        string    `bun:"phone,notnull" json:"phone"`
	Email        string    `bun:"email,nullzero" json:"email,omitempty"`
	UserType     string    `bun:"user_type,notnull" json:"user_type"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// UserProfile is the public projection of a User. It never carries the password hash.
type UserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	RealName string `json:"real_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	IDType   string `json:"id_type"`
	IDCard   string `json:"id_card"`
	UserType string `json:"user_type"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		RealName: u.RealName,
		Phone:    u.Phone,
		Email:    u.Email,
		IDType:   u.IDType,
		IDCard:   MaskIDCard(u.IDCard),
		UserType: u.UserType,
	}
}

// MaskIDCard keeps the first four and last four characters.
func MaskIDCard(idCard string) string {
	r := []rune(idCard)
	if len(r) <= 8 {
		return idCard
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-8) + string(r[len(r)-4:])
}
