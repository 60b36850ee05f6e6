//go:build !linux && !darwin

package main

import "io"

// enterRawMode is a no-op here; keys are delivered after Enter
func enterRawMode(in io.Reader) (restore func()) {
	return func() {}
}
