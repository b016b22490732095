package domain

import "errors"

var ErrNotFound = errors.New("resource not found")

// Submission validation. Messages are shown to the user verbatim.
var (
	ErrFillCompanyDetails  = errors.New("Please fill in all company details")
	ErrVerificationMissing = errors.New("Please upload a verification file")
	ErrNotEnoughQuestions  = errors.New("Please add at least 3 questions with all details")
	ErrSignInToShare       = errors.New("Please sign in to share your experience")
	ErrLastQuestion        = errors.New("at least one question is required")
	ErrQuestionIndex       = errors.New("question index out of range")
)

// Auth form validation.
var (
	ErrFillRequired     = errors.New("Please fill in all required fields")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrUnknownAuthMode  = errors.New("unknown auth mode")
)

// Session lookups.
var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")
)
