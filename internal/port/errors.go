package port

import "errors"

// ErrSavepoint marks a failure of the savepoint machinery itself, as opposed
// to an error returned by the guarded function.
var ErrSavepoint = errors.New("savepoint failed")
