package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = 1
	RoleAnalyst = 2
)

// Operator usuário configurado com acesso à API
type Operator struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RoleID       int    `json:"role_id"`
}

type Claims struct {
	UserEmail  string
	UserRoleID int
	jwt.RegisteredClaims
}
