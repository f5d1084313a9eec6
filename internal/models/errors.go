package models

// ErrorType identifies the category of error that occurred during a run.
type ErrorType string

const (
	// Launcher phase
	ErrLauncherUnavailable ErrorType = "launcher_unavailable"
	ErrTrainerStartFailed  ErrorType = "trainer_start_failed"

	// Trainer execution phase
	ErrTrainerExited  ErrorType = "trainer_exited"
	ErrTrainerTimeout ErrorType = "trainer_timeout"

	// Artifact phase
	ErrArtifactMissing ErrorType = "artifact_missing"
	ErrArtifactInvalid ErrorType = "artifact_invalid"

	// Pre-dispatch
	ErrSpecInvalid ErrorType = "spec_invalid"

	// Catch-all
	ErrInternalError ErrorType = "internal_error"
)
