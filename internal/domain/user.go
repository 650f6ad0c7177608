package domain

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	Active    bool
	CreatedAt time.Time
}
