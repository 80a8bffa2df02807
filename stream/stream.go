// Package stream applies a matcher to text line by line.
//
// Both readers work on '\n'-delimited lines. A trailing "\r" is not part of
// the text the matcher sees. Lines are matched whole, so a line is kept or
// rewritten only if the entire line matches the grammar.
package stream

import (
	"bytes"
	"io"

	"github.com/KromDaniel/textpat/pkg/textpat"
)

const chunkSize = 4096

// Filter returns a reader that yields the lines of r that m matches. With
// invert set it yields the lines m does not match instead.
//
//	r := stream.Filter(os.Stdin, emails, false)
//	io.Copy(os.Stdout, r)
func Filter(r io.Reader, m *textpat.Matcher, invert bool) io.Reader {
	return newLineReader(r, func(line []byte) ([]byte, error) {
		if m.Matches(string(text(line))) != invert {
			return line, nil
		}
		return nil, nil
	})
}

// Rewrite returns a reader that replaces every line of r that m matches with
// the expansion of template. Other lines pass through unchanged.
//
//	r := stream.Rewrite(input, dates, "${day}/${month}/${year}")
func Rewrite(r io.Reader, m *textpat.Matcher, template string) io.Reader {
	return newLineReader(r, func(line []byte) ([]byte, error) {
		body := text(line)
		p, err := m.Parse(string(body))
		if err != nil {
			return line, nil
		}
		s, err := p.Expand(template)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(s)+len(line)-len(body))
		out = append(out, s...)
		return append(out, line[len(body):]...), nil
	})
}

// text strips the line terminator.
func text(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// lineReader feeds each line of source through fn and yields the results.
// A nil result drops the line.
type lineReader struct {
	source io.Reader
	fn     func(line []byte) ([]byte, error)

	buf       []byte
	sourceEOF bool

	output []byte
	err    error
}

func newLineReader(r io.Reader, fn func(line []byte) ([]byte, error)) *lineReader {
	return &lineReader{
		source: r,
		fn:     fn,
		buf:    make([]byte, 0, chunkSize),
	}
}

func (r *lineReader) Read(p []byte) (int, error) {
	for len(r.output) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.err = r.fill()
	}

	n := copy(p, r.output)
	r.output = r.output[n:]
	return n, nil
}

// fill reads from source and processes every complete line buffered so far.
// It returns io.EOF once the source is drained and the last line processed.
func (r *lineReader) fill() error {
	if !r.sourceEOF {
		if cap(r.buf)-len(r.buf) < chunkSize {
			grown := make([]byte, len(r.buf), len(r.buf)+chunkSize)
			copy(grown, r.buf)
			r.buf = grown
		}

		n, err := r.source.Read(r.buf[len(r.buf):cap(r.buf)])
		r.buf = r.buf[:len(r.buf)+n]
		switch {
		case err == io.EOF:
			r.sourceEOF = true
		case err != nil:
			return err
		}
	}

	data := r.buf
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		if err := r.emit(data[:idx+1]); err != nil {
			return err
		}
		data = data[idx+1:]
	}

	if r.sourceEOF {
		// last line without a newline
		if len(data) > 0 {
			if err := r.emit(data); err != nil {
				return err
			}
		}
		r.buf = r.buf[:0]
		return io.EOF
	}

	r.buf = r.buf[:copy(r.buf, data)]
	return nil
}

func (r *lineReader) emit(line []byte) error {
	out, err := r.fn(line)
	if err != nil {
		return err
	}
	r.output = append(r.output, out...)
	return nil
}
