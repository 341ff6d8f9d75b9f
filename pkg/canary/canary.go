// Package canary holds a check that fails on purpose. A pipeline runs it to
// prove that failing checks are noticed and routed to whoever repairs them.
package canary

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// AssertEqual reports an error naming message and both values when got and
// want differ. Equality follows testify's ObjectsAreEqual, so values of
// different types never match.
func AssertEqual(got, want interface{}, message string) error {
	if !assert.ObjectsAreEqual(want, got) {
		return fmt.Errorf("Assertion failed: %s | %v !== %v", message, got, want)
	}
	return nil
}

// Check runs the canary assertion. It is expected to fail until someone
// fixes it.
func Check() error {
	return AssertEqual(1+1, 3, "AI should detect and fix this test")
}
