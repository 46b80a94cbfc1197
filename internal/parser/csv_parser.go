package parser

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// DefaultDelimiter separates the date label from the reading.
const DefaultDelimiter = ","

// ParseRecord splits one line such as "15-SEP,7.3" into a Reading.
// Surrounding whitespace and the line terminator are trimmed first; the date
// label is then kept verbatim.
func ParseRecord(line, delimiter string) (Reading, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	trimmed := strings.TrimSpace(line)

	fields := strings.Split(trimmed, delimiter)
	if len(fields) != 2 {
		return Reading{}, &ParseError{
			Line:   trimmed,
			Reason: fmt.Sprintf("expected 2 fields separated by %q, got %d", delimiter, len(fields)),
		}
	}

	valStr := strings.TrimSpace(fields[1])
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return Reading{}, &ParseError{
			Line:   trimmed,
			Field:  "bloodIron",
			Value:  valStr,
			Reason: "not a number",
			Err:    err,
		}
	}

	return Reading{Date: fields[0], BloodIron: val}, nil
}

// Loader reads readings files into bounded collections.
type Loader struct {
	delimiter string
	capacity  int
	validator *RowValidator
	logger    *slog.Logger
}

// NewLoader creates a loader. Empty delimiter and non-positive capacity fall
// back to DefaultDelimiter and DefaultCapacity.
func NewLoader(delimiter string, capacity int, logger *slog.Logger) *Loader {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		delimiter: delimiter,
		capacity:  capacity,
		validator: NewRowValidator(),
		logger:    logger.With(slog.String("component", "loader")),
	}
}

// OpenFile opens path for reading. Failures are returned as *IOError.
func (l *Loader) OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		ioErr := newIOError("open", path, err)
		l.logger.Error("Failed to open readings file",
			slog.String("path", path),
			slog.String("kind", string(ioErr.Kind)),
			slog.String("error", err.Error()))
		return nil, ioErr
	}
	return f, nil
}

// LoadFile opens path and loads every reading into a new collection.
func (l *Loader) LoadFile(path string) (*Collection, error) {
	f, err := l.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := NewCollection(l.capacity)
	n, err := l.Load(f, c)
	if err != nil {
		if ioErr, ok := err.(*IOError); ok && ioErr.Path == "" {
			ioErr.Path = path
		}
		return nil, err
	}

	l.logger.Info("Loaded readings",
		slog.String("path", path),
		slog.Int("count", n),
		slog.Int("capacity", c.Capacity()))
	return c, nil
}

// Load parses and validates each non-blank line of r and appends it to c.
// It returns the number of readings added before any error.
func (l *Loader) Load(r io.Reader, c *Collection) (int, error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	count := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		reading, err := ParseRecord(line, l.delimiter)
		if err == nil {
			err = l.validator.Check(reading)
		}
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.LineNo = lineNo
				pe.Line = strings.TrimSpace(line)
			}
			l.logger.Warn("Rejected line",
				slog.Int("line", lineNo),
				slog.String("error", err.Error()))
			return count, err
		}

		if err := c.add(reading); err != nil {
			if ce, ok := err.(*CapacityExceededError); ok {
				ce.LineNo = lineNo
			}
			return count, err
		}
		count++
	}

	if err := scanner.Err(); err != nil {
		return count, newIOError("read", "", err)
	}
	return count, nil
}
