package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
	// ErrParse marks a version index that could not be decoded.
	ErrParse = errors.New("parse error")
	// ErrInstall marks any failed install step.
	ErrInstall = errors.New("install failed")
)

// InstallError wraps the step of Install that failed. The install root may be
// left partially written; re-running Install overwrites it.
type InstallError struct {
	Step string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install failed (%s): %v", e.Step, e.Err)
}

func (e *InstallError) Unwrap() []error { return []error{ErrInstall, e.Err} }
