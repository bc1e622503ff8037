package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims scoping a client to one form session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	Locale    string `json:"locale"`
	jwt.RegisteredClaims
}
