package errors

// NewGenerationFailure reports that a generator invocation did not produce a
// usable output path. This is the only condition surfaced to the author.
func NewGenerationFailure(generator string, cause error) *PreviewError {
	return &PreviewError{
		Category: CategoryGenerator,
		Severity: SeverityError,
		Message:  "generation failed",
		Cause:    cause,
		Context:  ContextFields{"generator": generator},
	}
}

// NewNoGeneratorFound reports a configured generator name with no registered
// operation. Callers degrade to the identity passthrough.
func NewNoGeneratorFound(name string) *PreviewError {
	return &PreviewError{
		Category: CategoryGenerator,
		Severity: SeverityWarning,
		Message:  "no generator for " + name,
	}
}

// NewStaleSession reports a view handle that is no longer alive when reuse
// was expected. Treated as "no live session" by the session manager.
func NewStaleSession(sessionID string) *PreviewError {
	return &PreviewError{
		Category: CategoryViewer,
		Severity: SeverityWarning,
		Message:  "preview session is stale",
		Context:  ContextFields{"session": sessionID},
	}
}

// NewConfigError reports an invalid or unreadable configuration.
func NewConfigError(msg string, cause error) *PreviewError {
	return &PreviewError{
		Category: CategoryConfig,
		Severity: SeverityFatal,
		Message:  msg,
		Cause:    cause,
	}
}
