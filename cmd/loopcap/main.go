// Command loopcap classifies LOOP/CAP sequences, validates the classifier
// against labeled corpora, and serves classification over gRPC and HTTP.
package main

import (
	"errors"
	"fmt"
	"os"
)

// #region main

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 2
}

// #endregion main

// #region exit-codes

// exitError carries a process exit code. 1 means the run completed but the
// result diverged or the gate failed; 2 means usage or I/O failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

func ioError(err error) error {
	return &exitError{code: 2, err: err}
}

// divergence reports a completed run whose outcome is a failure; nothing is printed to stderr.
var divergence = &exitError{code: 1}

// #endregion exit-codes
