package models

import "strings"

// Student is the read-only projection of a learner account in the users table.
type Student struct {
	ID        string  `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     string  `db:"email" json:"email"`
	ClassName *string `db:"class_name" json:"class_name,omitempty"`
}

// FullName joins first and last names.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// CurrentClass returns the enrolled class or an empty string.
func (s Student) CurrentClass() string {
	if s.ClassName == nil {
		return ""
	}
	return *s.ClassName
}
