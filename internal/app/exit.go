package app

import (
	"errors"
	"fmt"

	"github.com/gajzzs/devinit/internal/probe"
)

// ExitError carries a process exit status out of a command. The command
// has already printed whatever the user should see.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func exit(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}

// ExitCode maps the error returned by Execute to a process exit status.
// Errors that are not an ExitError, such as bad flags, count as setup
// failures.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return probe.ExitSetupFailure
}

// Silent reports whether err needs no further message.
func Silent(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee)
}
