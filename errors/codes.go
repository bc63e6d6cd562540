package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Lexical and parse errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Lexical and parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Unexpected character
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Too many parameters or arguments
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Break outside of a loop
	E1011 ErrorCode = "E1011" // Missing left-hand operand
	E1012 ErrorCode = "E1012" // Unsupported construct
	E1013 ErrorCode = "E1013" // Return outside of a function

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Type error
	E3002 ErrorCode = "E3002" // Division by zero
	E3003 ErrorCode = "E3003" // Undefined variable
	E3004 ErrorCode = "E3004" // Not callable
	E3005 ErrorCode = "E3005" // Wrong argument count
	E3006 ErrorCode = "E3006" // Stack overflow
	E3007 ErrorCode = "E3007" // Invalid operation
	E3008 ErrorCode = "E3008" // Cancelled
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "unexpected character",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "unclosed delimiter",
	E1008: "too many parameters or arguments",
	E1009: "maximum nesting depth exceeded",
	E1010: "break outside of a loop",
	E1011: "missing left-hand operand",
	E1012: "unsupported construct",
	E1013: "return outside of a function",

	E3001: "type error",
	E3002: "division by zero",
	E3003: "undefined variable",
	E3004: "not callable",
	E3005: "wrong argument count",
	E3006: "stack overflow",
	E3007: "invalid operation",
	E3008: "cancelled",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
