package domain

import "time"

// UserType enumerates the roles a user can hold.
type UserType string

const (
	UserTypeCustomer UserType = "CUSTOMER"
	UserTypeEngineer UserType = "ENGINEER"
	UserTypeAdmin    UserType = "ADMIN"
)

// UserStatus represents the approval state of an account.
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusApproved UserStatus = "APPROVED"
	UserStatusRejected UserStatus = "REJECTED"
)

// User is the domain model for every account: customers filing tickets,
// engineers resolving them, and admins overseeing both. UserID is the
// stable human-facing identifier; ID is the storage row id.
type User struct {
	ID              string
	UserID          string
	Name            string
	Email           string
	PasswordHash    string
	Type            UserType
	Status          UserStatus
	TicketsCreated  []string
	TicketsAssigned []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultStatusFor returns the initial approval status for a new account.
// Customers are approved immediately; engineer and admin accounts wait for
// an admin to approve them. The one exception, the very first admin, is
// applied by the user directory at insert time.
func DefaultStatusFor(t UserType) UserStatus {
	if t == UserTypeCustomer {
		return UserStatusApproved
	}
	return UserStatusPending
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Type == UserTypeAdmin
}

// IsAssignable reports whether the user is an approved engineer eligible
// for ticket assignment.
func (u *User) IsAssignable() bool {
	return u != nil && u.Type == UserTypeEngineer && u.Status == UserStatusApproved
}
