package testutil

import "testing"

// The router tests describe whole API scenarios. These helpers prefix the
// subtest names so a failure prints the full Given/When/Then path.

func Given(t *testing.T, desc string, fn func(t *testing.T)) { scenario(t, "Given", desc, fn) }
func When(t *testing.T, desc string, fn func(t *testing.T))  { scenario(t, "When", desc, fn) }
func Then(t *testing.T, desc string, fn func(t *testing.T))  { scenario(t, "Then", desc, fn) }

func scenario(t *testing.T, step, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(step+" "+desc, fn)
}
