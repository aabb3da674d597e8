package domain

import "fmt"

// DiscoveryError reports that the base directory cannot be used. It is fatal.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover documents in %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// IOReadError reports that a single source file could not be read.
type IOReadError struct {
	Path string
	Err  error
}

func (e *IOReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOReadError) Unwrap() error { return e.Err }
