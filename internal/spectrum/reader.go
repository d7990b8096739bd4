// Package spectrum reads spectrogram exports and writes equalizer curves.
//
// An export is plain text: a header line followed by one
// "frequency<TAB>amplitude" row per line, as produced by Audacity's
// "Plot Spectrum" export.
package spectrum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/RMahshie/autoeq/pkg/curve"
	"github.com/RMahshie/autoeq/pkg/models"
)

// ParseError reports a malformed data row.
type ParseError struct {
	File  string
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s:%d: invalid %s: %v", e.File, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileNotFoundError reports an input that does not exist or cannot be read.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileNotFoundError) Unwrap() error { return e.Err }

var (
	errMissingField = errors.New("expected two tab-separated fields")
	errNotFinite    = errors.New("not a finite number")
)

// Read parses a spectrogram export from r. name identifies the source in errors.
func Read(r io.Reader, name string) (curve.Curve, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// the header is skipped without inspection
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return curve.Curve{}, &FileNotFoundError{Path: name, Err: err}
		}
		return curve.Curve{}, fmt.Errorf("%s: %w: missing header", name, curve.ErrEmptyInput)
	}

	var points []models.FrequencyPoint
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		p, err := parseRow(line)
		if err != nil {
			err.File = name
			err.Line = lineNo
			return curve.Curve{}, err
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return curve.Curve{}, &FileNotFoundError{Path: name, Err: err}
	}

	if len(points) == 0 {
		return curve.Curve{}, fmt.Errorf("%s: %w: no data rows", name, curve.ErrEmptyInput)
	}

	c, err := curve.New(points)
	if err != nil {
		return curve.Curve{}, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

// Load reads a spectrogram export from a local file.
func Load(path string) (curve.Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return curve.Curve{}, &FileNotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	return Read(f, path)
}

func parseRow(line string) (models.FrequencyPoint, *ParseError) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return models.FrequencyPoint{}, &ParseError{Err: errMissingField}
	}

	freq, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return models.FrequencyPoint{}, &ParseError{Field: "frequency", Err: err}
	}
	if math.IsNaN(freq) || math.IsInf(freq, 0) {
		return models.FrequencyPoint{}, &ParseError{Field: "frequency", Err: errNotFinite}
	}
	if freq <= 0 {
		return models.FrequencyPoint{}, &ParseError{Field: "frequency", Err: curve.ErrInvalidFrequency}
	}

	gain, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return models.FrequencyPoint{}, &ParseError{Field: "amplitude", Err: err}
	}
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		return models.FrequencyPoint{}, &ParseError{Field: "amplitude", Err: errNotFinite}
	}

	return models.FrequencyPoint{Frequency: freq, Gain: gain}, nil
}
