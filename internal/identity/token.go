package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 2 * time.Hour

// GenerateToken signs a session token carrying the user's id, email and name.
func GenerateToken(secret []byte, u *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"nombre":  u.Nombre,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}
