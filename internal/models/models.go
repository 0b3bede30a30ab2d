package models

import "time"

// Role is the canonical role vocabulary shared by every provider. Each
// adapter owns the translation between these three values and whatever its
// backend calls them.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Course is the provider-agnostic course shape. IDs are always strings, even
// where the backend hands out numeric ids. StartDate/EndDate are nil when the
// backend reports no date.
type Course struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// User is the provider-agnostic user shape. Role defaults to RoleStudent
// wherever the backend does not report one.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Assignment is the provider-agnostic assignment shape. DueDate and MaxScore
// are nil when the backend reports neither.
type Assignment struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"courseId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	MaxScore    *float64   `json:"maxScore,omitempty"`
}

// Submission is the payload for submitting an assignment. Each adapter
// documents how Text reaches its backend; none of the three take anything
// else.
type Submission struct {
	Text string `json:"text"`
}

// CreateCourseRequest is the parameter struct for creating a course.
type CreateCourseRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// UpdateCourseRequest is a partial course update. Nil fields are left
// untouched on the backend.
type UpdateCourseRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// CreateAssignmentRequest is the parameter struct for creating an assignment.
type CreateAssignmentRequest struct {
	CourseID    string     `json:"courseId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	MaxScore    *float64   `json:"maxScore,omitempty"`
}

// EnrollUserRequest is the parameter struct for enrolling a user in a course.
type EnrollUserRequest struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// SubmitAssignmentRequest is the parameter struct for submitting work against
// an assignment.
type SubmitAssignmentRequest struct {
	UserID     string     `json:"userId"`
	Submission Submission `json:"submission"`
}
