package identity

import "time"

type User struct {
	ID                 string     `db:"id" json:"id"`
	Nombre             string     `db:"nombre" json:"nombre"`
	Apellido           string     `db:"apellido" json:"apellido"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	MustChangePassword bool       `db:"must_change_password" json:"-"`
	Verified           bool       `db:"verified" json:"verificado"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt        *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// Profile is the public projection of a user. The password hash never
// leaves the package.
type Profile struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Apellido: u.Apellido,
		Email:    u.Email,
	}
}

type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Usuario Profile `json:"usuario"`
}

type RequiresChangeResponse struct {
	RequiresChange bool   `json:"requiresChange"`
	Email          string `json:"email"`
	Message        string `json:"message"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"nueva_password"`
}
