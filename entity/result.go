package entity

import "fmt"

// ErrorKind enumerates the parse-time error taxonomy from the error
// handling design (kinds, not dynamic messages, are what callers switch
// on).
type ErrorKind int

const (
	ErrSetupInvalid ErrorKind = iota
	ErrNonexistentFile
	ErrTranslationUnitInitFailed
	ErrMalformedProperty
	ErrUnknownProperty
	ErrRuleRejected
	ErrModuleRejectedEntity
	ErrOutputWriteFailed
	ErrCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSetupInvalid:
		return "SetupInvalid"
	case ErrNonexistentFile:
		return "NonexistentFile"
	case ErrTranslationUnitInitFailed:
		return "TranslationUnitInitFailed"
	case ErrMalformedProperty:
		return "MalformedProperty"
	case ErrUnknownProperty:
		return "UnknownProperty"
	case ErrRuleRejected:
		return "RuleRejected"
	case ErrModuleRejectedEntity:
		return "ModuleRejectedEntity"
	case ErrOutputWriteFailed:
		return "OutputWriteFailed"
	case ErrCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// KodgenError is the closed error type every package in this module raises
// (§7): a Kind from the taxonomy above, the source location it pertains to
// (zero value for kinds with no associated file position, e.g.
// SetupInvalid), a human-readable Message, and an optional wrapped Cause so
// callers can still errors.As/errors.Is through to the underlying failure.
type KodgenError struct {
	Kind     ErrorKind
	Location SourceLocation
	Message  string
	Cause    error
}

func (e *KodgenError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Location.File == "" {
		if msg == "" {
			return e.Kind.String()
		}
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s at %s:%d:%d", e.Kind, e.Location.File, e.Location.Line, e.Location.Column)
	}
	return fmt.Sprintf("%s at %s:%d:%d: %s", e.Kind, e.Location.File, e.Location.Line, e.Location.Column, msg)
}

func (e *KodgenError) Unwrap() error {
	return e.Cause
}

// ParsingError is a single error raised while parsing one file.
type ParsingError struct {
	Kind     ErrorKind
	Location SourceLocation
	Message  string
}

func (e ParsingError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s at %s:%d:%d", e.Kind, e.Location.File, e.Location.Line, e.Location.Column)
	}
	return fmt.Sprintf("%s at %s:%d:%d: %s", e.Kind, e.Location.File, e.Location.Line, e.Location.Column, e.Message)
}

// ParsingResult holds everything produced by parsing a single input file:
// the file path, the ordered top-level entities discovered (the arena that
// owns every Entity reachable from this file), and any parsing errors.
type ParsingResult struct {
	FilePath string
	Entities []Entity
	Errors   []ParsingError
}

// NewParsingResult creates an empty result for the given file.
func NewParsingResult(filePath string) *ParsingResult {
	return &ParsingResult{FilePath: filePath}
}

// AddEntity appends a top-level reflected entity in source-textual order.
func (r *ParsingResult) AddEntity(e Entity) {
	r.Entities = append(r.Entities, e)
}

// AddError records a parsing error without aborting collection; callers
// that want shouldAbortOnFirstError semantics stop the traversal
// themselves upon seeing the first append (see fileparser.Parser).
func (r *ParsingResult) AddError(err ParsingError) {
	r.Errors = append(r.Errors, err)
}

// HasErrors reports whether any parsing error was recorded.
func (r *ParsingResult) HasErrors() bool {
	return len(r.Errors) > 0
}
