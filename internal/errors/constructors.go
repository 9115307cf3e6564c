package errors

// Config errors

func ConfigNotFound(path string) *SpecError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SpecError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SpecError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Source document errors

func SourceNotFound(path string) *SpecError {
	return New(CategorySource, SeverityFatal, "source specification not found: "+path).
		WithContext("path", path)
}

func SourceInvalid(path string, cause error) *SpecError {
	return Wrap(cause, CategorySource, SeverityFatal, "source specification is not valid JSON").
		WithContext("path", path)
}

// Pipeline errors

func BuildFailed(stage string, cause error) *SpecError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func DocumentInvalid(tag string, cause error) *SpecError {
	return Wrap(cause, CategoryValidation, SeverityFatal, "generated document failed validation").
		WithContext("tag", tag)
}

func OutputWriteFailed(path string, cause error) *SpecError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to write output").
		WithContext("path", path)
}

func FileSystemError(operation string, cause error) *SpecError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

func WatchFailed(cause error) *SpecError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "watch mode failed")
}

// Internal errors

func InternalError(message string, cause error) *SpecError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
