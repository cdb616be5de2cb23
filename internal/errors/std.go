package errors

import stderrors "errors"

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join joins errs, discarding nils.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
