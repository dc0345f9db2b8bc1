package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeGit           ErrorType = "GIT"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if code, ok := e.Context["status_code"].(int); ok {
			msg += fmt.Sprintf(" [status %d]", code)
		}
		if body, ok := e.Context["body"].(string); ok && body != "" {
			msg += fmt.Sprintf(" - %s", body)
		}
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same kind of AppError. Builders return
// copies, so identity alone would miss errors decorated with context.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// StatusCode returns the HTTP status recorded by the hosting client, or 0.
func (e *AppError) StatusCode() int {
	if code, ok := e.Context["status_code"].(int); ok {
		return code
	}
	return 0
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// NewHostingAPIError records a non-success response of the hosting API.
func NewHostingAPIError(operation string, statusCode int, body string) *AppError {
	return ErrHostingAPI.
		WithContext("operation", operation).
		WithContext("status_code", statusCode).
		WithContext("body", body)
}

// NewVCSProviderNotSupportedError reports a provider name missing from the registry.
func NewVCSProviderNotSupportedError(provider string) *AppError {
	return ErrVCSNotSupported.WithContext("provider", provider)
}

// Git errors
var (
	ErrGetBranch = NewAppError(TypeGit, "Failed to get current branch", nil).
			WithSuggestion("Make sure you are in a git repository: git status")

	ErrNoBranch = NewAppError(TypeGit, "No branch detected", nil).
			WithSuggestion("Publishing needs a named branch, not a detached HEAD: git checkout <branch>")

	ErrGetCommit = NewAppError(TypeGit, "Failed to get HEAD commit", nil).
			WithSuggestion("Make sure the repository has at least one commit: git log")

	ErrGetRepoURL = NewAppError(TypeGit, "Failed to get repository URL", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrExtractRepoInfo = NewAppError(TypeGit, "Failed to extract repository info", nil)
)

// Configuration errors
var (
	ErrInvalidStatus = NewAppError(TypeConfiguration, "invalid publish status", nil).
				WithSuggestion("Use one of: pending, success, error, failure, warning")

	ErrTokenMissing = NewAppError(TypeConfiguration, "hosting token is missing", nil).
			WithSuggestion("Export JAYPORE_GITEA_TOKEN or JAYPORE_GITHUB_TOKEN")

	ErrUnsupportedRemote = NewAppError(TypeConfiguration, "unsupported remote URL", nil).
				WithSuggestion("Use an https or ssh remote: https://host/owner/repo.git")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "invalid configuration", nil).
				WithSuggestion("Check the values in .jci.toml")

	ErrConfigRead = NewAppError(TypeConfiguration, "failed to read configuration file", nil)
)

// VCS errors
var (
	ErrVCSNotSupported = NewAppError(TypeVCS, "VCS provider not supported", nil).
				WithSuggestion("Supported providers: gitea, github")

	ErrHostingAPI = NewAppError(TypeVCS, "hosting API returned an unexpected response", nil)

	ErrHostingRequest = NewAppError(TypeVCS, "hosting API request failed", nil).
				WithSuggestion("Check network access to the hosting service")

	ErrPRResolveExhausted = NewAppError(TypeVCS, "could not resolve pull request id", nil).
				WithSuggestion("The hosting API kept reporting creation without a conflict; retry the pipeline")
)
