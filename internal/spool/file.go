// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package spool

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/metrics"
	"github.com/tomtom215/robolog/internal/models"
)

const filePerm = 0o644

// Option customizes a FileSpool.
type Option func(*FileSpool)

// WithFallback sets the store used when the file cannot be appended to.
func WithFallback(f *FallbackSpool) Option {
	return func(s *FileSpool) {
		s.fallback = f
	}
}

// FileSpool is the append-only JSON-lines failure spool. All file access
// goes through mu, so appends and rewrites never interleave.
type FileSpool struct {
	path     string
	fallback *FallbackSpool
	mu       sync.Mutex
}

// Open returns a spool for path. The file is created on first append.
func Open(path string, opts ...Option) *FileSpool {
	s := &FileSpool{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the spool file path.
func (s *FileSpool) Path() string {
	return s.path
}

// Fallback returns the fallback store, or nil.
func (s *FileSpool) Fallback() *FallbackSpool {
	return s.fallback
}

// Append writes event as one JSON line. On a file error the event goes to
// the fallback store; ErrEventLost is returned only if that fails too.
func (s *FileSpool) Append(event *models.LogEvent) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal spool entry: %w", err)
	}

	fileErr := s.appendLine(line)
	if fileErr == nil {
		metrics.RecordSpoolAppend("file")
		return nil
	}

	logging.Warn().Err(fileErr).Str("path", s.path).Str("robot_id", event.RobotID).Msg("Spool append failed")

	if s.fallback != nil {
		fbErr := s.fallback.Append(event)
		if fbErr == nil {
			metrics.RecordSpoolAppend("fallback")
			return nil
		}
		fileErr = errors.Join(fileErr, fbErr)
	}

	metrics.RecordEventLost()
	logging.Error().Err(fileErr).Str("robot_id", event.RobotID).RawJSON("event", line).Msg("Event lost")
	return fmt.Errorf("%w: %w", ErrEventLost, fileErr)
}

func (s *FileSpool) appendLine(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, filePerm)
	if err != nil {
		return fmt.Errorf("open spool: %w", err)
	}
	defer f.Close()

	torn, err := endsWithoutNewline(f)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, len(line)+2)
	if torn {
		buf = append(buf, '\n')
	}
	buf = append(buf, line...)
	buf = append(buf, '\n')

	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("write spool: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync spool: %w", err)
	}
	return nil
}

// endsWithoutNewline reports whether a non-empty file lacks a trailing
// newline, i.e. the last record was torn by a crash.
func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat spool: %w", err)
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, fmt.Errorf("read spool tail: %w", err)
	}
	return last[0] != '\n', nil
}

// ReadLines returns every non-blank line and the file size they were read
// from. A missing file yields no lines and offset 0.
func (s *FileSpool) ReadLines() ([]string, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read spool: %w", err)
	}
	return splitLines(data), int64(len(data)), nil
}

// ReplaceWith atomically replaces the spool content with lines.
func (s *FileSpool) ReplaceWith(lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewrite(lines, nil)
}

// ReplaceBefore atomically replaces the first end bytes of the spool with
// lines and keeps whatever was appended after end.
func (s *FileSpool) ReplaceBefore(end int64, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail, err := s.readFrom(end)
	if err != nil {
		return err
	}
	return s.rewrite(lines, tail)
}

func (s *FileSpool) readFrom(offset int64) ([]byte, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek spool: %w", err)
	}
	tail, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read spool tail: %w", err)
	}
	return tail, nil
}

// rewrite must be called with mu held.
func (s *FileSpool) rewrite(lines []string, tail []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp spool: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	if len(tail) > 0 {
		buf.Write(tail)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write temp spool: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp spool: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("chmod temp spool: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp spool: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace spool: %w", err)
	}
	committed = true
	return nil
}

func splitLines(data []byte) []string {
	var lines []string
	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		raw = bytes.TrimRight(raw, "\r")
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		lines = append(lines, string(raw))
	}
	return lines
}
