package sbomModel

import "fmt"

type WarningKind string

const (
	// WarningReference marks an edge or license reference to an unknown id.
	WarningReference WarningKind = "ReferenceError"
	// WarningPartialData marks an optional section or field that was absent or unusable.
	WarningPartialData WarningKind = "PartialDataWarning"
)

// Warning is a recoverable condition met during translation. It never aborts
// the translation, it only explains why the result has fewer edges or
// defaulted values.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}

func NewWarning(kind WarningKind, format string, args ...interface{}) Warning {
	return Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
