package models

import (
	"time"
)

// Role is the authorization role resolved once per request from the session.
type Role string

const (
	RoleHOD       Role = "HOD"
	RoleAdmin     Role = "ADMIN"
	RolePrincipal Role = "PRINCIPAL"
)

// IsApprover reports whether the role can approve/reject requests and manage
// quotation batches. Both ADMIN and PRINCIPAL have approval authority.
func (r Role) IsApprover() bool {
	return r == RoleAdmin || r == RolePrincipal
}

type User struct {
	ID         int       `json:"id" example:"1"`
	EmployeeId string    `json:"employee_id" example:"EMP001"`
	Email      string    `json:"email" example:"user@example.com"`
	Password   string    `json:"password" example:""`
	FirstName  string    `json:"first_name" example:"John"`
	LastName   string    `json:"last_name" example:"Doe"`
	Role       Role      `json:"role" example:"HOD"`
	Branch     string    `json:"branch" example:"Computer Science"`
	Suspended  bool      `json:"suspended" example:"false"`
	CreatedAt  time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type Session struct {
	UserID                int       `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"hod@college.edu"`
	Password string `json:"password" binding:"required" example:"secret"`
	IP       string `json:"ip" example:"10.0.0.1"`
}

type LoginResponse struct {
	Message      string `json:"message" example:"User successfully logged in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	Role         Role   `json:"role" example:"ADMIN"`
	User         User   `json:"user"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"something went wrong"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}
