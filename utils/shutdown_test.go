package utils

import (
	"bytes"
	"context"
	"log"
	"os"
	"syscall"
	"testing"
	"time"
)

// shutdown_test.go: Tests for graceful server shutdown, scheduler stop,
// and resource release.

// mockServer is a mock implementation of a server for testing graceful shutdown.
type mockServer struct {
	shutdownCalled bool
	shutdownErr    error
}

// Shutdown simulates shutting down the server and records if it was called.
func (m *mockServer) Shutdown(_ context.Context) error {
	m.shutdownCalled = true
	return m.shutdownErr
}

// mockScheduler records whether Stop was called.
type mockScheduler struct {
	stopCalled bool
}

func (m *mockScheduler) Stop() {
	m.stopCalled = true
}

// mockCloser records whether Close was called and can simulate an error.
type mockCloser struct {
	closeCalled bool
	closeErr    error
}

func (m *mockCloser) Close() error {
	m.closeCalled = true
	return m.closeErr
}

// TestGracefulShutdown_Success tests GracefulShutdown for a successful shutdown sequence.
func TestGracefulShutdown_Success(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	srv := &mockServer{}
	sched := &mockScheduler{}
	closer := &mockCloser{}

	done := make(chan struct{})
	go func() {
		time.Sleep(50 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		if err := p.Signal(syscall.SIGTERM); err != nil {
			t.Errorf("p.Signal failed: %v", err)
		}
		close(done)
	}()

	GracefulShutdown(srv, sched, closer, 100*time.Millisecond)
	<-done

	if !srv.shutdownCalled {
		t.Error("expected Shutdown to be called")
	}
	if !sched.stopCalled {
		t.Error("expected scheduler Stop to be called")
	}
	if !closer.closeCalled {
		t.Error("expected Close to be called")
	}
	out := buf.String()
	if !containsAll(out, "Shutdown signal received", "Server shutdown gracefully.", "Scheduler stopped.", "Resources released.") {
		t.Errorf("unexpected log output: %q", out)
	}
}

// TestGracefulShutdown_Errors tests GracefulShutdown for error scenarios during shutdown and resource release.
func TestGracefulShutdown_Errors(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	srv := &mockServer{shutdownErr: context.DeadlineExceeded}
	sched := &mockScheduler{}
	closer := &mockCloser{closeErr: context.DeadlineExceeded}

	done := make(chan struct{})
	go func() {
		time.Sleep(50 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		if err := p.Signal(syscall.SIGTERM); err != nil {
			t.Errorf("p.Signal failed: %v", err)
		}
		close(done)
	}()

	GracefulShutdown(srv, sched, closer, 100*time.Millisecond)
	<-done

	out := buf.String()
	if !containsAll(out, "Shutdown signal received", "Server forced to shutdown", "Error releasing resources") {
		t.Errorf("unexpected log output: %q", out)
	}
}

// TestGracefulShutdown_NilSchedAndCloser tests that nil scheduler/closer are tolerated.
func TestGracefulShutdown_NilSchedAndCloser(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	srv := &mockServer{}

	done := make(chan struct{})
	go func() {
		time.Sleep(50 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		if err := p.Signal(syscall.SIGTERM); err != nil {
			t.Errorf("p.Signal failed: %v", err)
		}
		close(done)
	}()

	GracefulShutdown(srv, nil, nil, 100*time.Millisecond)
	<-done

	if !srv.shutdownCalled {
		t.Error("expected Shutdown to be called")
	}
}

// containsAll checks if all substrings are present in the given string.
func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !bytes.Contains([]byte(s), []byte(sub)) {
			return false
		}
	}
	return true
}
