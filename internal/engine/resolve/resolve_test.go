package resolve

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/marktext/internal/engine/gap"
	"github.com/dshills/marktext/internal/engine/mark"
	"github.com/dshills/marktext/internal/engine/textobject"
	"github.com/dshills/marktext/internal/logging"
)

var cur = mark.Cursor(0)

// newResolver builds a resolver over content with Cursor(0) at offset at.
func newResolver(content string, at int) *Resolver {
	text := gap.FromBytes([]byte(content), 8)
	marks := mark.NewTable()
	marks.Set(cur, at, text)
	return New(text, marks)
}

type resolveCase struct {
	name    string
	content string
	at      int
	obj     textobject.TextObject
	want    int
	wantOK  bool
}

func runCases(t *testing.T, tests []resolveCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(tt.content, tt.at)
			pos, ok := r.Resolve(tt.obj)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%v) ok = %v, want %v", tt.obj, ok, tt.wantOK)
			}
			if ok && pos.Absolute != tt.want {
				t.Errorf("Resolve(%v) = %d, want %d", tt.obj, pos.Absolute, tt.want)
			}
		})
	}
}

func TestResolveChar(t *testing.T) {
	char := textobject.Char()
	runCases(t, []resolveCase{
		{"forward", "hello", 1, textobject.New(char, textobject.Forward(2, cur)), 3, true},
		{"forward clamps to end slot", "hello", 4, textobject.New(char, textobject.Forward(2, cur)), 5, true},
		{"backward", "hello", 4, textobject.New(char, textobject.Backward(4, cur)), 0, true},
		{"backward underflow", "hello", 4, textobject.New(char, textobject.Backward(5, cur)), 0, false},
		{"absolute", "hello", 0, textobject.New(char, textobject.Absolute(3)), 3, true},
		{"absolute clamps", "hello", 0, textobject.New(char, textobject.Absolute(99)), 5, true},
		{"unset mark", "hello", 0, textobject.New(char, textobject.Forward(1, mark.Cursor(9))), 0, false},
	})
}

func TestResolveLineForward(t *testing.T) {
	const text = "hello\nworld\n"
	runCases(t, []resolveCase{
		{"end of current line", text, 0, textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Forward(0, cur)), 5, true},
		{"end of next line", text, 2, textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Forward(1, cur)), 11, true},
		{"start of next line", text, 3, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Forward(1, cur)), 6, true},
		{"same column", text, 3, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Forward(1, cur)), 9, true},
		{"same column clamps to short line", "hello\nab\n", 4, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Forward(1, cur)), 8, true},
		{"into trailing empty line", text, 3, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Forward(2, cur)), 12, true},
		{"overrun lands on end slot", text, 0, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Forward(5, cur)), 12, true},
		{"end of unterminated last line", "ab\ncd", 0, textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Forward(1, cur)), 5, true},
		{"from a newline byte", text, 5, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Forward(1, cur)), 6, true},
	})
}

func TestResolveLineBackward(t *testing.T) {
	const text = "hello\nworld\n"
	runCases(t, []resolveCase{
		{"start of previous line", text, 8, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Backward(1, cur)), 0, true},
		{"same column", text, 9, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Backward(1, cur)), 3, true},
		{"same column clamps", "ab\nhello", 7, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Backward(1, cur)), 2, true},
		{"end of previous line", text, 8, textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Backward(1, cur)), 5, true},
		{"start of current line", text, 9, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Backward(0, cur)), 6, true},
		{"zero lines with same anchor", "abc\ndefgh\nij", 7, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Backward(0, cur)), 0, true},
		{"overrun clamps to buffer start", text, 8, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Backward(5, cur)), 0, true},
		{"overrun with same anchor", text, 9, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Backward(3, cur)), 0, true},
	})
}

func TestResolveLineAbsolute(t *testing.T) {
	const text = "hello\nworld\n"
	runCases(t, []resolveCase{
		{"start of line 0", text, 9, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Absolute(0)), 0, true},
		{"end of line 0", text, 9, textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Absolute(0)), 5, true},
		{"start of line 1", text, 0, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Absolute(1)), 6, true},
		{"end of line 1", text, 0, textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Absolute(1)), 11, true},
		{"trailing empty line", text, 0, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Absolute(2)), 12, true},
		{"past the last line", text, 0, textobject.New(textobject.Line(textobject.AnchorStart), textobject.Absolute(7)), 12, true},
		{"same is unhandled", text, 0, textobject.New(textobject.Line(textobject.AnchorSame), textobject.Absolute(1)), 0, false},
	})
}

func TestResolveWord(t *testing.T) {
	start := textobject.Word(textobject.AnchorStart)
	runCases(t, []resolveCase{
		{"next word", "foo bar\n", 0, textobject.New(start, textobject.Forward(1, cur)), 4, true},
		{"from inside a word", "foo bar baz", 5, textobject.New(start, textobject.Forward(1, cur)), 8, true},
		{"two words", "foo bar baz", 0, textobject.New(start, textobject.Forward(2, cur)), 8, true},
		{"forward overrun", "foo bar\n", 0, textobject.New(start, textobject.Forward(2, cur)), 8, true},
		{"zero count stays", "foo bar", 2, textobject.New(start, textobject.Forward(0, cur)), 2, true},
		{"blank line is a word", "a\n\nb", 0, textobject.New(start, textobject.Forward(1, cur)), 2, true},
		{"word after blank line", "a\n\nb", 0, textobject.New(start, textobject.Forward(2, cur)), 3, true},
		{"previous word", "foo bar baz", 9, textobject.New(start, textobject.Backward(1, cur)), 8, true},
		{"previous word from word start", "foo bar baz", 8, textobject.New(start, textobject.Backward(1, cur)), 4, true},
		{"backward overrun", "foo bar", 5, textobject.New(start, textobject.Backward(3, cur)), 0, true},
		{"absolute first word", "foo bar baz", 9, textobject.New(start, textobject.Absolute(1)), 0, true},
		{"absolute third word", "foo bar baz", 0, textobject.New(start, textobject.Absolute(3)), 8, true},
		{"absolute overrun clamps", "foo bar", 0, textobject.New(start, textobject.Absolute(9)), 7, true},
		{"end anchor unhandled", "foo bar", 0, textobject.New(textobject.Word(textobject.AnchorEnd), textobject.Forward(1, cur)), 0, false},
	})
}

func TestResolveWordAlphanumeric(t *testing.T) {
	r := newResolver("foo.bar baz", 0)
	r.Matcher = textobject.Alphanumeric{}

	pos, ok := r.Resolve(textobject.New(textobject.Word(textobject.AnchorStart), textobject.Forward(1, cur)))
	if !ok || pos.Absolute != 3 {
		t.Errorf("expected punctuation boundary at 3, got %d (%v)", pos.Absolute, ok)
	}
}

func TestResolveEmptyBuffer(t *testing.T) {
	objs := []textobject.TextObject{
		textobject.New(textobject.Char(), textobject.Forward(3, cur)),
		textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Forward(2, cur)),
		textobject.New(textobject.Line(textobject.AnchorStart), textobject.Backward(2, cur)),
		textobject.New(textobject.Line(textobject.AnchorStart), textobject.Absolute(3)),
		textobject.New(textobject.Word(textobject.AnchorStart), textobject.Forward(1, cur)),
		textobject.New(textobject.Word(textobject.AnchorStart), textobject.Absolute(2)),
	}
	r := newResolver("", 0)
	for _, obj := range objs {
		pos, ok := r.Resolve(obj)
		if !ok || pos != (mark.Position{}) {
			t.Errorf("Resolve(%v) on empty buffer = %+v, %v", obj, pos, ok)
		}
	}
}

func TestResolveClampingInvariant(t *testing.T) {
	content := "one two\nthree\n\nfour five six\nseven"
	last := len(content)

	for at := 0; at <= last; at++ {
		r := newResolver(content, at)
		for _, anchor := range []textobject.Anchor{textobject.AnchorStart, textobject.AnchorEnd, textobject.AnchorSame} {
			fwd, ok := r.Resolve(textobject.New(textobject.Line(anchor), textobject.Forward(100, cur)))
			if !ok || fwd.Absolute != last {
				t.Errorf("at %d, line(%s) forward overrun = %d, want %d", at, anchor, fwd.Absolute, last)
			}
			back, ok := r.Resolve(textobject.New(textobject.Line(anchor), textobject.Backward(100, cur)))
			if !ok || back.Absolute != 0 {
				t.Errorf("at %d, line(%s) backward overrun = %d, want 0", at, anchor, back.Absolute)
			}
		}
		word := textobject.Word(textobject.AnchorStart)
		if pos, _ := r.Resolve(textobject.New(word, textobject.Forward(100, cur))); pos.Absolute != last {
			t.Errorf("at %d, word forward overrun = %d", at, pos.Absolute)
		}
		if pos, _ := r.Resolve(textobject.New(word, textobject.Backward(100, cur))); pos.Absolute != 0 {
			t.Errorf("at %d, word backward overrun = %d", at, pos.Absolute)
		}
	}
}

func TestResolvedPositionsCarryLineMetadata(t *testing.T) {
	content := "alpha beta\ngamma\n\ndelta"
	r := newResolver(content, 13)

	objs := []textobject.TextObject{
		textobject.New(textobject.Char(), textobject.Absolute(20)),
		textobject.New(textobject.Line(textobject.AnchorSame), textobject.Forward(2, cur)),
		textobject.New(textobject.Line(textobject.AnchorEnd), textobject.Backward(1, cur)),
		textobject.New(textobject.Word(textobject.AnchorStart), textobject.Forward(2, cur)),
		textobject.New(textobject.Word(textobject.AnchorStart), textobject.Absolute(2)),
	}
	for _, obj := range objs {
		pos, ok := r.Resolve(obj)
		if !ok {
			t.Fatalf("Resolve(%v) failed", obj)
		}
		if pos.LineStart > pos.Absolute || pos.Absolute > len(content) {
			t.Errorf("%v: bad bounds %+v", obj, pos)
		}
		if want := strings.Count(content[:pos.LineStart], "\n"); pos.Line != want {
			t.Errorf("%v: line %d, want %d", obj, pos.Line, want)
		}
	}
}

func TestUnhandledAnchorIsLogged(t *testing.T) {
	var out bytes.Buffer
	r := newResolver("foo bar", 0)
	r.Logger = logging.New(logging.Config{Level: logging.LevelDebug, Output: &out})

	if _, ok := r.Resolve(textobject.New(textobject.Word(textobject.AnchorSame), textobject.Forward(1, cur))); ok {
		t.Error("expected no result")
	}
	if !strings.Contains(out.String(), "unhandled word anchor: same") {
		t.Errorf("missing diagnostic: %q", out.String())
	}
}
