package models

// UserRole represents the roles supplied by the identity provider.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleStaff     UserRole = "staff"
	RolePrincipal UserRole = "principal"
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
