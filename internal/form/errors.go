package form

import "errors"

// errUnknown replaces a recovered enhancer panic in the error banner.
var errUnknown = errors.New(unknownErrorMessage)
