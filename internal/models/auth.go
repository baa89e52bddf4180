package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload issued by the identity provider.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Actor identifies who performs a mutation. It is passed explicitly to every write path.
type Actor struct {
	ID    string
	Email string
	Role  UserRole
}

// SystemActor attributes automatic transitions such as due-date publication.
var SystemActor = Actor{ID: "system", Email: "system", Role: RolePrincipal}

// ActorFromClaims converts validated token claims into an Actor.
func ActorFromClaims(claims *JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

// IsStaff reports whether the actor may manage results.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RolePrincipal
}

// IsPrincipal reports whether the actor holds principal privileges.
func (a Actor) IsPrincipal() bool {
	return a.Role == RolePrincipal
}
