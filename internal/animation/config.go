package animation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrTooFewAnimations = errors.New("too few animations")
	ErrMalformedLine    = errors.New("malformed line")
)

// FormatError reports an animation config that cannot be used. Line is the
// 1-based line number, or 0 when the problem is the file as a whole.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	where := "animation"
	if e.Path != "" {
		where += ": " + e.Path
	}
	if e.Line > 0 {
		where += fmt.Sprintf(":%d", e.Line)
	}
	return where + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error { return e.Err }

// Load reads an animation config file.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "animation: open %s", path)
	}
	defer f.Close()

	tb, err := Parse(f)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return Table{}, err
	}
	return tb, nil
}

// Parse reads the first Count data lines of an animation config. A data line
// has a digit as its first character and carries first frame, frame count,
// looping frames and fps separated by whitespace. Anything after the fourth
// field is ignored. Every other line is skipped, including indented ones.
//
// The legs rows are stored in the file as if the torso frames did not exist;
// they are shifted back by the distance between TORSO_GESTURE and LEGS_WALKCR
// so every row indexes the shared frame range of the upper and lower models.
func Parse(r io.Reader) (Table, error) {
	var tb Table
	n := 0
	lineNo := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() && n < Count {
		lineNo++
		// Only a digit in the very first column marks a data line; indented
		// lines are skipped like comments.
		line := sc.Text()
		if line == "" || !isDigit(line[0]) {
			continue
		}
		d, err := parseLine(line)
		if err != nil {
			return Table{}, &FormatError{Line: lineNo, Err: err}
		}
		tb[n] = d
		n++
	}
	if err := sc.Err(); err != nil {
		return Table{}, errors.Wrap(err, "animation: read")
	}
	if n < Count {
		return Table{}, &FormatError{Err: errors.Wrapf(ErrTooFewAnimations, "got %d, want %d", n, Count)}
	}

	skip := tb[TorsoGesture].FirstFrame - tb[LegsWalkCr].FirstFrame
	for t := LegsWalkCr; t <= LegsTurn; t++ {
		tb[t].FirstFrame -= skip
	}
	return tb, nil
}

func parseLine(line string) (Descriptor, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Descriptor{}, errors.Wrapf(ErrMalformedLine, "%d fields in %q", len(fields), line)
	}
	var v [4]int
	for i := range v {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return Descriptor{}, errors.Wrapf(ErrMalformedLine, "field %d %q", i+1, fields[i])
		}
		v[i] = n
	}
	return Descriptor{FirstFrame: v[0], NumFrames: v[1], LoopingFrames: v[2], FPS: v[3]}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
