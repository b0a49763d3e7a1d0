package internal

import (
	"bytes"
	"testing"

	"github.com/pixil98/go-testutil"
)

type bufferReadWriter struct {
	in  *bytes.Buffer
	out *bytes.Buffer
}

func (b *bufferReadWriter) Read(p []byte) (int, error) {
	return b.in.Read(p)
}

func (b *bufferReadWriter) Write(p []byte) (int, error) {
	return b.out.Write(p)
}

func newBufferReadWriter(input string) *bufferReadWriter {
	return &bufferReadWriter{in: bytes.NewBufferString(input), out: &bytes.Buffer{}}
}

func TestPrompt(t *testing.T) {
	tests := map[string]struct {
		input  string
		opts   []promptOption
		exp    string
		expErr string
	}{
		"plain line": {
			input: "hello\n",
			exp:   "hello",
		},
		"crlf line": {
			input: "hello\r\n",
			exp:   "hello",
		},
		"no trailing newline": {
			input: "hello",
			exp:   "hello",
		},
		"validator retries": {
			input: "bad\ngood\n",
			opts: []promptOption{WithValidator(func(s string) (bool, string) {
				return s == "good", "nope\n"
			})},
			exp: "good",
		},
		"too many tries": {
			input: "bad\nbad\ngood\n",
			opts: []promptOption{WithMaxTries(2), WithValidator(func(s string) (bool, string) {
				return s == "good", "nope\n"
			})},
			expErr: "too many tries",
		},
		"eof": {
			input:  "",
			expErr: "EOF",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := newBufferReadWriter(tt.input)
			got, err := Prompt(rw, "> ", tt.opts...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "input", got, tt.exp)
		})
	}
}

func TestPrompt_LeavesRemainingInput(t *testing.T) {
	rw := newBufferReadWriter("duel\nhurry\n")

	got, err := Prompt(rw, "> ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "input", got, "duel")
	testutil.AssertEqual(t, "remaining", rw.in.String(), "hurry\n")
}
