package domain

import "time"

// Role enumerates the platform's access roles.
type Role string

const (
	RolePatient     Role = "PATIENT"
	RoleDoctor      Role = "DOCTOR"
	RoleAdmin       Role = "ADMIN"
	RoleClinicAdmin Role = "CLINIC_ADMIN"
	RoleSuperAdmin  Role = "SUPER_ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin, RoleClinicAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User is the account record shared by all roles. ClinicID is set only for
// CLINIC_ADMIN accounts and scopes their tenancy.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        *string
	ClinicID     *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
