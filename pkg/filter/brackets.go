package filter

import srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"

const (
	errMissingLeftBracket  = "Missing left bracket"
	errMissingRightBracket = "Missing right bracket"
)

// CheckBrackets validates a sequence of bracket weights. A right bracket may
// never close more than was opened before it, and everything opened must be closed.
func CheckBrackets(weights []int) error {
	sum := 0
	for _, w := range weights {
		sum += w
		if sum > 0 {
			return srvErrors.NewValidationError(errMissingLeftBracket)
		}
	}
	if sum != 0 {
		return srvErrors.NewValidationError(errMissingRightBracket)
	}
	return nil
}
