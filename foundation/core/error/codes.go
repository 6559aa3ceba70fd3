// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error classification
//              across the oil toolkit. Syntax codes are produced by the lexer and
//              parser, platform codes by configuration loading and the hosts.
// Author: msto63 with Claude Sonnet 4.0
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Replaced domain codes with oil syntax codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Lexical errors
	CodeUnterminatedLiteral                Code = "UNTERMINATED_LITERAL"
	CodeInvalidEscape                      Code = "INVALID_ESCAPE"
	CodeInvalidExponent                    Code = "INVALID_EXPONENT"
	CodeIllegalEnclosedIdentifierCharacter Code = "ILLEGAL_ENCLOSED_IDENTIFIER_CHARACTER"
	CodeUnexpectedCharacter                Code = "UNEXPECTED_CHARACTER"

	// Syntax errors
	CodeUnexpectedToken         Code = "UNEXPECTED_TOKEN"
	CodeNotAPrimaryExpression   Code = "NOT_A_PRIMARY_EXPRESSION"
	CodeInvalidAssignmentTarget Code = "INVALID_ASSIGNMENT_TARGET"
	CodeInvalidField            Code = "INVALID_FIELD"
	CodeInputTooLarge           Code = "INPUT_TOO_LARGE"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Service
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeInvalidInput, CodeTimeout,
		CodeUnterminatedLiteral, CodeInvalidEscape, CodeInvalidExponent,
		CodeIllegalEnclosedIdentifierCharacter, CodeUnexpectedCharacter,
		CodeUnexpectedToken, CodeNotAPrimaryExpression, CodeInvalidAssignmentTarget,
		CodeInvalidField, CodeInputTooLarge,
		CodeConfigError, CodeInvalidConfig, CodeServiceUnavailable:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeUnterminatedLiteral, CodeInvalidEscape, CodeInvalidExponent,
		CodeIllegalEnclosedIdentifierCharacter, CodeUnexpectedCharacter:
		return "lexical"
	case CodeUnexpectedToken, CodeNotAPrimaryExpression, CodeInvalidAssignmentTarget,
		CodeInvalidField, CodeInputTooLarge:
		return "syntax"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeServiceUnavailable, CodeTimeout:
		return "service"
	default:
		return "generic"
	}
}

// IsSyntax reports whether the code describes a problem in the parsed text
func (c Code) IsSyntax() bool {
	cat := c.Category()
	return cat == "lexical" || cat == "syntax"
}
