package sources

import "errors"

// ErrWrongMigrationData indicates the source tree is malformed, missing, or
// logically inconsistent.
var ErrWrongMigrationData = errors.New("wrong migration data")

// ErrInvalidArgument indicates a bad parameter to a public operation.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotSupportedURLSchema indicates an unrecognized URI scheme was passed to Load.
var ErrNotSupportedURLSchema = errors.New("not supported url schema")

// ErrNotImplemented indicates a recognized but unimplemented URI scheme (the
// http+tar+gz and https+tar+gz remote-archive schemes).
var ErrNotImplemented = errors.New("not implemented")

// ErrVersionNotFound indicates GetVersionBundle was called with an unknown version name.
var ErrVersionNotFound = errors.New("version not found in sources")
