package models

import "time"

// Course is a subject in the school catalogue.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassCourse assigns a course to a class for one term.
type ClassCourse struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	ClassName  string    `db:"class_name" json:"class_name"`
	Term       Term      `db:"term" json:"term"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CourseName string    `db:"course_name" json:"course_name,omitempty"`
	CourseCode string    `db:"course_code" json:"course_code,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ClassCourseFilter narrows class course listings.
type ClassCourseFilter struct {
	ClassName string
	Term      Term
	Active    *bool
}
