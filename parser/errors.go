package parser

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a BuildError per the taxonomy in spec.md §7.
type ErrorKind int

const (
	// Lex/parse
	ErrorSyntax ErrorKind = iota
	ErrorUnknownMnemonic
	ErrorMissingArgument

	// Build
	ErrorInvalidRegister
	ErrorRegisterNotCompressed
	ErrorImmediateOutOfRange

	// Symbol
	ErrorDuplicateLabel
	ErrorUnresolvedSymbol
)

var errorKindNames = map[ErrorKind]string{
	ErrorSyntax:                "syntax error",
	ErrorUnknownMnemonic:       "unknown mnemonic",
	ErrorMissingArgument:       "missing argument",
	ErrorInvalidRegister:       "invalid register",
	ErrorRegisterNotCompressed: "register not in compressed range",
	ErrorImmediateOutOfRange:   "immediate out of range",
	ErrorDuplicateLabel:        "duplicate label",
	ErrorUnresolvedSymbol:      "unresolved symbol",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// BuildError is the pipeline's single error value: every lex, parse, build
// and symbol-resolution failure surfaces as one of these, halting the
// pipeline at the first occurrence (spec.md §7).
type BuildError struct {
	Kind    ErrorKind
	Message string
	Line    int
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
}

// NewBuildError constructs a BuildError.
func NewBuildError(kind ErrorKind, line int, message string) *BuildError {
	return &BuildError{Kind: kind, Message: message, Line: line}
}

// ErrorList accumulates errors discovered during a single parse pass. Only
// the first error actually halts the pipeline (parse_and_resolve's return
// codes reflect that), but the full list is kept for diagnostics.
type ErrorList struct {
	Errors []*BuildError
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *BuildError) {
	el.Errors = append(el.Errors, err)
}

// HasErrors reports whether any error was recorded.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// First returns the first recorded error, or nil if none.
func (el *ErrorList) First() *BuildError {
	if len(el.Errors) == 0 {
		return nil
	}
	return el.Errors[0]
}

func (el *ErrorList) Error() string {
	var sb strings.Builder
	for _, e := range el.Errors {
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}
