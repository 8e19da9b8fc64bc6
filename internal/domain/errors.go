package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSubmissionNotFound is returned when a submission id does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrEmptySubmission rejects submissions with no questions or answers.
	ErrEmptySubmission = errors.New("submission has no questions or answers")
	// ErrInvalidAnswer indicates a malformed answer, e.g. a negative time spent.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrDivisionUndefined is returned when no answer could be scored.
	ErrDivisionUndefined = errors.New("score undefined: no scorable answers")
	// ErrMalformedFeatures indicates a feature vector with non-finite values.
	ErrMalformedFeatures = errors.New("malformed feature vector")
	// ErrClassificationUnavailable wraps any failure while predicting risk.
	ErrClassificationUnavailable = errors.New("risk classification unavailable")
	// ErrGenerationFailed indicates the quiz generator returned unusable output.
	ErrGenerationFailed = errors.New("quiz generation failed")
	// ErrForbidden is returned when the caller lacks the teacher role.
	ErrForbidden = errors.New("access denied")
)

var (
	// ErrUnauthenticated is returned when the caller identity is missing.
	ErrUnauthenticated = errors.New("missing caller identity")
	// ErrUserNotFound is returned when a per-user counter has no user record to update.
	ErrUserNotFound = errors.New("user not found")
)
