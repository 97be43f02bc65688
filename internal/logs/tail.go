package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	maxLineBytes = 1024 * 1024
	defaultPoll  = 250 * time.Millisecond
)

// Page is a batch of log lines and the offset just past them.
type Page struct {
	Lines  []string
	Offset int64
}

// Matcher selects lines. A nil Matcher keeps every line.
type Matcher func(line string) bool

// Contains keeps lines containing every term, ignoring case.
func Contains(terms ...string) Matcher {
	var lowered []string
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			lowered = append(lowered, strings.ToLower(term))
		}
	}
	if len(lowered) == 0 {
		return nil
	}
	return func(line string) bool {
		line = strings.ToLower(line)
		for _, term := range lowered {
			if !strings.Contains(line, term) {
				return false
			}
		}
		return true
	}
}

func (m Matcher) keep(line string) bool {
	return m == nil || m(line)
}

// Last returns up to n matching lines from the end of the file. A missing
// file yields an empty page.
func Last(path string, n int, match Matcher) (Page, error) {
	file, err := openLog(path)
	if file == nil || err != nil {
		return Page{}, err
	}
	defer file.Close()

	if n <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return Page{}, fmt.Errorf("seek log file: %w", err)
		}
		return Page{Offset: offset}, nil
	}

	ring := make([]string, n)
	count, next := 0, 0
	offset, err := scan(file, func(line string) {
		if !match.keep(line) {
			return
		}
		ring[next] = line
		next = (next + 1) % n
		if count < n {
			count++
		}
	})
	if err != nil {
		return Page{}, err
	}

	lines := make([]string, 0, count)
	start := 0
	if count == n {
		start = next
	}
	for i := 0; i < count; i++ {
		lines = append(lines, ring[(start+i)%n])
	}
	return Page{Lines: lines, Offset: offset}, nil
}

// From returns matching lines written after offset. When the file is smaller
// than offset it was rotated and is read from the start.
func From(path string, offset int64, match Matcher) (Page, error) {
	file, err := openLog(path)
	if file == nil || err != nil {
		return Page{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Page{}, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Page{}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	read, err := scan(file, func(line string) {
		if match.keep(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Lines: lines, Offset: offset + read}, nil
}

// Follow polls the file from offset and hands each new matching line to emit
// until ctx ends or emit fails. It returns nil when ctx is cancelled.
func Follow(ctx context.Context, path string, offset int64, poll time.Duration, match Matcher, emit func(string) error) error {
	if poll <= 0 {
		poll = defaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		page, err := From(path, offset, match)
		if err != nil {
			return err
		}
		for _, line := range page.Lines {
			if err := emit(line); err != nil {
				return err
			}
		}
		offset = page.Offset

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// openLog returns nil without error when the file does not exist yet.
func openLog(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return file, nil
}

// scan feeds complete lines to fn and returns the bytes consumed. A trailing
// partial line is left for the next read.
func scan(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		line = strings.TrimRight(line, "\r\n")
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		fn(line)
	}
}
