package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("smoothing window adjusted to %d", 7)
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op logger that must not invoke the previous one.
	called = false
	SetLogger(nil)
	Logf("dropped frame %d", 42)
	if called {
		t.Error("no-op logger should not have triggered the old callback")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}
