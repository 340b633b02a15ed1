package models

import "time"

type AdminRole string

const (
	RoleOperator  AdminRole = "operator"
	RoleSuperuser AdminRole = "superuser"
)

// Admin is a tournament operator account. Operators authenticate to
// enter results and manage schedules; they are not participants.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
