// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package spool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tomtom215/robolog/internal/models"
)

func openTestFallback(t *testing.T) *FallbackSpool {
	t.Helper()
	fb, err := OpenFallback(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFallback() error = %v", err)
	}
	t.Cleanup(func() { _ = fb.Close() })
	return fb
}

func TestOpenFallbackRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := OpenFallback(""); err == nil {
		t.Error("OpenFallback(\"\") expected error")
	}
}

func TestFallbackOrderAndDelete(t *testing.T) {
	t.Parallel()

	fb := openTestFallback(t)
	for i := 0; i < 5; i++ {
		if err := fb.Append(&models.LogEvent{RobotID: "r-1", Message: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := fb.Pending(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("Pending() = %d entries, want 5", len(entries))
	}
	for i, e := range entries {
		if want := fmt.Sprintf("m%d", i); e.Event.Message != want {
			t.Errorf("entry %d = %q, want %q", i, e.Event.Message, want)
		}
	}

	limited, err := fb.Pending(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("Pending(2) = %d entries, want 2", len(limited))
	}

	if err := fb.Delete(entries[0].Key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := fb.Delete(entries[0].Key); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}

	n, err := fb.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Count() = %d, want 4", n)
	}
}

func TestFallbackPendingCancelled(t *testing.T) {
	t.Parallel()

	fb := openTestFallback(t)
	if err := fb.Append(&models.LogEvent{RobotID: "r-1", Message: "m"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fb.Pending(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Pending() error = %v, want context.Canceled", err)
	}
}

func TestFallbackClosed(t *testing.T) {
	t.Parallel()

	fb, err := OpenFallback(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fb.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fb.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := fb.Append(&models.LogEvent{RobotID: "r"}); !errors.Is(err, ErrFallbackClosed) {
		t.Errorf("Append() error = %v, want ErrFallbackClosed", err)
	}
	if _, err := fb.Pending(context.Background(), 0); !errors.Is(err, ErrFallbackClosed) {
		t.Errorf("Pending() error = %v, want ErrFallbackClosed", err)
	}
	if _, err := fb.Count(); !errors.Is(err, ErrFallbackClosed) {
		t.Errorf("Count() error = %v, want ErrFallbackClosed", err)
	}
}
