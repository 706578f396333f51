package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents a registered applicant.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"password" json:"-"`
	Phone           *string            `bson:"phone,omitempty" json:"phone"`
	Citizenship     *string            `bson:"citizenship,omitempty" json:"citizenship"`
	IsEmailVerified bool               `bson:"isEmailVerified" json:"isEmailVerified"`
	Role            UserRole           `bson:"role" json:"role"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate carries the optional fields of a profile edit. Nil means "leave as is".
type ProfileUpdate struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=2,max=100"`
	Phone       *string `json:"phone"`
	Citizenship *string `json:"citizenship"`
}

// AuthTokens is returned by register and login.
type AuthTokens struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

type RegisterRequest struct {
	FullName    string  `json:"fullName" validate:"required,min=2,max=100"`
	Email       string  `json:"email" validate:"required,strict_email"`
	Password    string  `json:"password" validate:"required,min=6"`
	Phone       *string `json:"phone"`
	Citizenship *string `json:"citizenship"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,strict_email"`
	Password string `json:"password" validate:"required"`
}
