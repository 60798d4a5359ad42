package framing

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader serves a fixed byte slice in arbitrary chunks, simulating
// bytes arriving over several reads instead of all at once.
type chunkedReader struct {
	chunks [][]byte
	pos    int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.chunks) {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[c.pos])
	c.pos++
	return n, nil
}

func TestReadNAcrossArbitraryChunkSplits(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")

	splits := [][]int{
		{len(payload)},
		{1, len(payload) - 1},
		{5, 5, 5, len(payload) - 15},
		repeatSplit(len(payload), 1),
	}

	for _, split := range splits {
		var chunks [][]byte
		offset := 0
		for _, n := range split {
			chunks = append(chunks, payload[offset:offset+n])
			offset += n
		}
		r := &chunkedReader{chunks: chunks}

		got, err := ReadN(r, len(payload))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func repeatSplit(total, step int) []int {
	var out []int
	for total > 0 {
		n := step
		if n > total {
			n = total
		}
		out = append(out, n)
		total -= n
	}
	return out
}

func TestReadNFailsOnShortStream(t *testing.T) {
	r := bytes.NewReader([]byte("short"))
	_, err := ReadN(r, 10)
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestReadNDoesNotOverconsume(t *testing.T) {
	payload := []byte("0123456789")
	r := bytes.NewReader(payload)

	got, err := ReadN(r, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("01234"), got)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("56789"), rest)
}
