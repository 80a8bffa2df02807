package stream

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/KromDaniel/textpat/pkg/textpat"
)

var date = textpat.NewMatcher(textpat.Sequence(
	textpat.Group("year", textpat.Exactly(4, textpat.AnyCharacterInCategory("Nd"))),
	textpat.Text("-"),
	textpat.Group("month", textpat.Exactly(2, textpat.AnyCharacterInCategory("Nd"))),
	textpat.Text("-"),
	textpat.Group("day", textpat.Exactly(2, textpat.AnyCharacterInCategory("Nd"))),
))

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	return string(out)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		invert bool
		want   string
	}{
		{"empty", "", false, ""},
		{"keeps matching lines", "2024-01-02\nnope\n2025-12-31\n", false, "2024-01-02\n2025-12-31\n"},
		{"invert", "2024-01-02\nnope\n2025-12-31\n", true, "nope\n"},
		{"last line without newline", "nope\n2024-01-02", false, "2024-01-02"},
		{"crlf", "2024-01-02\r\nnope\r\n", false, "2024-01-02\r\n"},
		{"partial line does not match", "on 2024-01-02\n", false, ""},
		{"no matches", "a\nb\nc\n", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, Filter(strings.NewReader(tt.input), date, tt.invert))
			if got != tt.want {
				t.Errorf("Filter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rewrites matching lines", "2024-01-02\nnope\n", "02/01/2024\nnope\n"},
		{"keeps terminator", "2024-01-02\r\n", "02/01/2024\r\n"},
		{"last line without newline", "nope\n2025-12-31", "nope\n31/12/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, Rewrite(strings.NewReader(tt.input), date, "$day/$month/$year"))
			if got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteUnknownGroup(t *testing.T) {
	_, err := io.ReadAll(Rewrite(strings.NewReader("2024-01-02\n"), date, "$week"))
	if !errors.Is(err, textpat.ErrUnknownGroup) {
		t.Errorf("ReadAll() error = %v, want ErrUnknownGroup", err)
	}
}

func TestLongLines(t *testing.T) {
	// lines longer than one read chunk
	long := strings.Repeat("x", 3*chunkSize)
	input := long + "\n2024-01-02\n" + long + "\n"

	got := readAll(t, Filter(strings.NewReader(input), date, true))
	if want := long + "\n" + long + "\n"; got != want {
		t.Errorf("Filter() returned %d bytes, want %d", len(got), len(want))
	}
}

func TestSmallReads(t *testing.T) {
	input := "2024-01-02\nnope\n2025-12-31\n"

	got := readAll(t, iotest.OneByteReader(Filter(iotest.HalfReader(strings.NewReader(input)), date, false)))
	if want := "2024-01-02\n2025-12-31\n"; got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}

func TestSourceError(t *testing.T) {
	boom := errors.New("boom")
	r := Filter(io.MultiReader(strings.NewReader("2024-01-02\n"), iotest.ErrReader(boom)), date, false)

	got, err := io.ReadAll(r)
	if !errors.Is(err, boom) {
		t.Fatalf("ReadAll() error = %v, want %v", err, boom)
	}
	if string(got) != "2024-01-02\n" {
		t.Errorf("ReadAll() = %q, want lines read before the error", got)
	}
}
