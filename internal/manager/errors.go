package manager

import "errors"

// ErrCancelled indicates the manager's own cancellation check found the
// context cancelled: when Install or Rollback starts, or before a version or
// a script. Versions committed before that point stay committed.
var ErrCancelled = errors.New("operation cancelled")

// ErrInvalidArgument indicates a bad parameter to Install or Rollback.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidOperation indicates an operation was invoked in an illegal state.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrNoStepHandler indicates a JavaScript-kind script has no StepHandler
// registered for its Kind.
var ErrNoStepHandler = errors.New("no step handler registered for script kind")

// ErrDangerousPlan indicates the analyzer flagged one or more High/Critical
// findings in the filtered install plan and WithForce was not set.
var ErrDangerousPlan = errors.New("install plan contains dangerous statements")
