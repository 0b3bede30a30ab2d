package lmserrors

import "errors"

var (
	// Provider errors
	ProviderNotFoundError      = errors.New("provider not found")
	UnsupportedProviderError   = errors.New("unsupported provider kind")
	NoProvidersConfiguredError = errors.New("no LMS provider configured")

	// Course errors
	CourseNotFoundError = errors.New("course not found")

	// User errors
	UserNotFoundError          = errors.New("user not found")
	UserEnrollmentMissingError = errors.New("user has no enrollments")

	// Assignment errors
	AssignmentNotFoundError = errors.New("assignment not found")
)
