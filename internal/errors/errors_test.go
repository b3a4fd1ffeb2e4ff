package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

type staleNotifications struct{}

func (staleNotifications) Error() string { return "notifications not updated" }
func (staleNotifications) Warning() bool { return true }

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{
			name:     "wrapped warning",
			err:      fmt.Errorf("reminder saved: %w", staleNotifications{}),
			expected: "Warning: reminder saved: notifications not updated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("reminder %s not found", "abc")
	if want := "Error: reminder abc not found"; got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	if Report(&buf, nil) {
		t.Error("Report(nil) = true, want false")
	}
	if buf.Len() != 0 {
		t.Errorf("Report(nil) wrote %q", buf.String())
	}

	if Report(&buf, staleNotifications{}) {
		t.Error("Report(warning) = true, want false")
	}
	if !strings.HasPrefix(buf.String(), "Warning: ") {
		t.Errorf("Report(warning) wrote %q", buf.String())
	}

	buf.Reset()
	if !Report(&buf, errors.New("disk full")) {
		t.Error("Report(error) = false, want true")
	}
	if got := buf.String(); got != "Error: disk full\n" {
		t.Errorf("Report(error) wrote %q", got)
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_Warning tests that Fatal returns normally for warnings
func TestFatal_Warning(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_WARNING") == "1" {
		Fatal(staleNotifications{})
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_Warning")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_WARNING=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(warning) should not exit, but got error: %v", err)
	}
}
