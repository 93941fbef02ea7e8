package sqlite

import "errors"

// ErrConnectionFailed indicates a connection to the database file could not
// be established.
var ErrConnectionFailed = errors.New("sqlite connection failed")
