package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsTransient_ExplicitTransientError(t *testing.T) {
	err := NewTransientError(errors.New("database warming up"))
	if !IsTransient(err) {
		t.Error("expected TransientError to be transient")
	}
}

func TestIsTransient_WrappedTransientError(t *testing.T) {
	inner := NewTransientError(errors.New("pool exhausted"))
	wrapped := fmt.Errorf("store: save metrics: %w", inner)
	if !IsTransient(wrapped) {
		t.Error("expected wrapped TransientError to be transient")
	}
}

func TestIsTransient_NilError(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil error should not be transient")
	}
}

func TestIsTransient_RegularError(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: stocks.symbol")
	if IsTransient(err) {
		t.Error("regular error should not be transient")
	}
}

func TestIsTransient_ConnectionReset(t *testing.T) {
	err := fmt.Errorf("write tcp: %w", syscall.ECONNRESET)
	if !IsTransient(err) {
		t.Error("ECONNRESET should be transient")
	}
}

func TestIsTransient_ConnectionRefused(t *testing.T) {
	err := fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED)
	if !IsTransient(err) {
		t.Error("ECONNREFUSED should be transient")
	}
}

func TestIsTransient_NetworkTimeout(t *testing.T) {
	err := &net.DNSError{IsTimeout: true, Err: "timeout"}
	if !IsTransient(err) {
		t.Error("network timeout should be transient")
	}
}

func TestIsTransient_DeadlineExceeded(t *testing.T) {
	err := fmt.Errorf("ping: %w", context.DeadlineExceeded)
	if !IsTransient(err) {
		t.Error("deadline exceeded should be transient")
	}
}

func TestIsTransient_PgErrorCodes(t *testing.T) {
	retry := []string{"40001", "40P01", "53300", "57P03", "08006", "08001"}
	for _, code := range retry {
		err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
		if !IsTransient(err) {
			t.Errorf("expected pg code %s to be transient", code)
		}
	}

	permanent := []string{"23505", "42P01", "22P02"}
	for _, code := range permanent {
		if IsTransient(&pgconn.PgError{Code: code}) {
			t.Errorf("expected pg code %s to NOT be transient", code)
		}
	}
}

func TestIsTransient_StringPatterns(t *testing.T) {
	patterns := []string{
		"database is locked",
		"SQLITE_BUSY: database is busy",
		"connection reset by peer",
		"broken pipe",
		"i/o timeout",
		"FATAL: the database system is starting up",
	}
	for _, p := range patterns {
		err := errors.New(p)
		if !IsTransient(err) {
			t.Errorf("expected %q to be transient", p)
		}
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := errors.New("root cause")
	te := NewTransientError(inner)

	if !errors.Is(te, inner) {
		t.Error("TransientError.Unwrap should return the inner error")
	}
}

func TestTransientError_ErrorMessage(t *testing.T) {
	inner := errors.New("something went wrong")
	te := NewTransientError(inner)

	if te.Error() != "something went wrong" {
		t.Errorf("expected error message %q, got %q", inner.Error(), te.Error())
	}
}

func TestFromStoreConfig(t *testing.T) {
	cfg := FromStoreConfig(3, 50)
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff.Milliseconds() != 50 {
		t.Errorf("expected 50ms backoff, got %v", cfg.InitialBackoff)
	}

	def := FromStoreConfig(0, -1)
	if def.MaxAttempts != DefaultRetryConfig().MaxAttempts {
		t.Errorf("expected default attempts, got %d", def.MaxAttempts)
	}
	if def.InitialBackoff != DefaultRetryConfig().InitialBackoff {
		t.Errorf("expected default backoff, got %v", def.InitialBackoff)
	}
}
