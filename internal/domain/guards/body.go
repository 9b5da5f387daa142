package guards

import (
	"rangeguard.dev/pkg/rangeguard/internal/syntax"
)

const (
	minThrowArgs = 1
	maxThrowArgs = 3
)

// soleStatement unwraps a block holding exactly one statement.
func soleStatement(body syntax.Stmt) (syntax.Stmt, bool) {
	block, ok := body.(*syntax.Block)
	if !ok {
		return body, body != nil
	}

	if len(block.Stmts) != 1 {
		return nil, false
	}

	return block.Stmts[0], true
}

// thrownCreation returns the `new T(...)` expression thrown by body.
func thrownCreation(body syntax.Stmt) (*syntax.ObjectCreation, bool) {
	stmt, ok := soleStatement(body)
	if !ok {
		return nil, false
	}

	throw, ok := stmt.(*syntax.Throw)
	if !ok {
		return nil, false
	}

	creation, ok := throw.Value.(*syntax.ObjectCreation)

	return creation, ok
}

// IsGuardBody reports whether body is exactly `throw new <exception>(...)`
// with one to three arguments, optionally wrapped in a block.
func IsGuardBody(body syntax.Stmt, exception string) bool {
	creation, ok := thrownCreation(body)
	if !ok || creation.Type != exception || !creation.HasArgs {
		return false
	}

	n := len(creation.Args)

	return n >= minThrowArgs && n <= maxThrowArgs
}
