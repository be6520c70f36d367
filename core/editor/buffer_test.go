package editor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func typeString(b *Buffer, s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

func TestBufferEditing(t *testing.T) {
	b := NewBuffer("")
	typeString(b, "ac")
	b.MoveLeft()
	b.Insert('b')
	assert.Equal(t, "abc", b.Contents())
	assert.Equal(t, 2, b.Cursor())

	b.Delete()
	assert.Equal(t, "ab", b.Contents())
	b.Delete()
	assert.Equal(t, "ab", b.Contents(), "delete at end of line is a no-op")

	b.Backspace()
	b.Backspace()
	b.Backspace()
	assert.Equal(t, "", b.Contents())
	assert.Equal(t, 0, b.Cursor())
}

func TestBufferHomeEnd(t *testing.T) {
	b := NewBuffer("world")
	b.Home()
	typeString(b, "hello ")
	assert.Equal(t, "hello world", b.Contents())
	assert.Equal(t, 6, b.Cursor())

	b.End()
	b.Insert('!')
	assert.Equal(t, "hello world!", b.Contents())
	assert.Equal(t, b.Len(), b.Cursor())
}

func TestBufferMoveRoundTrip(t *testing.T) {
	for _, line := range []string{"", "a", "ls -al | grep foo", "héllo wörld", "日本語"} {
		for n := 0; n <= len([]rune(line))+2; n++ {
			b := NewBuffer("")
			typeString(b, line)
			start := b.Cursor()

			for i := 0; i < n; i++ {
				b.MoveLeft()
			}
			for i := 0; i < n; i++ {
				b.MoveRight()
			}

			if n <= len([]rune(line)) {
				assert.Equal(t, start, b.Cursor(), "line %q, n=%d", line, n)
			}
			assert.Equal(t, line, b.Contents(), "line %q, n=%d", line, n)
		}
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBuffer("old text")
	b.Home()
	b.Replace("new")
	assert.Equal(t, "new", b.Contents())
	assert.Equal(t, 3, b.Cursor())
}

func TestBufferRender(t *testing.T) {
	cases := map[string]struct {
		line   string
		left   int
		marker string
		want   string
	}{
		"empty": {
			marker: "$ ",
			want:   "\r\x1b[K$ \r\x1b[2C",
		},
		"cursor at end": {
			line:   "hello",
			marker: "> ",
			want:   "\r\x1b[K> hello\r\x1b[7C",
		},
		"cursor moved": {
			line:   "hello",
			left:   2,
			marker: "> ",
			want:   "\r\x1b[K> hello\r\x1b[5C",
		},
		"wide runes": {
			line:   "日本",
			marker: "> ",
			want:   "\r\x1b[K> 日本\r\x1b[6C",
		},
		"no marker": {
			line: "x",
			left: 1,
			want: "\r\x1b[Kx\r",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			b := NewBuffer(tc.line)
			for i := 0; i < tc.left; i++ {
				b.MoveLeft()
			}

			var out bytes.Buffer
			assert.NoError(t, b.Render(&out, tc.marker, len(tc.marker)))
			assert.Equal(t, tc.want, out.String())
		})
	}
}
