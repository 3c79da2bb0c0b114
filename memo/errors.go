package memo

import "errors"

var (
	// ErrNilFunc indicates a Definition without a function.
	ErrNilFunc = errors.New("memo: function is nil")

	// ErrNoName indicates the function's name could not be derived and none
	// was given.
	ErrNoName = errors.New("memo: function name is required")

	// ErrReservedParam indicates a declared parameter uses AttemptParam.
	ErrReservedParam = errors.New("memo: parameter name is reserved")

	// ErrDuplicateParam indicates a parameter name is declared twice.
	ErrDuplicateParam = errors.New("memo: duplicate parameter name")
)
