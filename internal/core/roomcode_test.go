package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/domain"
)

func TestRandomCodeAlphabet(t *testing.T) {
	for range 200 {
		code := string(randomCode())
		require.Len(t, code, RoomCodeLen)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(roomCodeAlphabet, c), "unexpected %q in %s", c, code)
		}
	}
}

func TestCodePoolRegeneratesOnCollision(t *testing.T) {
	seq := []domain.RoomID{"AAAAAA", "AAAAAA", "BBBBBB"}
	i := 0
	pool := NewCodePoolWith(func() domain.RoomID {
		id := seq[i%len(seq)]
		i++
		return id
	})

	a, err := pool.Acquire()
	require.NoError(t, err)
	b, err := pool.Acquire()
	require.NoError(t, err)
	assert.Equal(t, domain.RoomID("AAAAAA"), a)
	assert.Equal(t, domain.RoomID("BBBBBB"), b)
	assert.Equal(t, 2, pool.Live())

	pool.Release(a)
	assert.Equal(t, 1, pool.Live())
}

func TestCodePoolExhausted(t *testing.T) {
	pool := NewCodePoolWith(func() domain.RoomID { return "SAME22" })
	_, err := pool.Acquire()
	require.NoError(t, err)
	_, err = pool.Acquire()
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestNormalizeRoomID(t *testing.T) {
	assert.Equal(t, domain.RoomID("ABC234"), NormalizeRoomID("  abc234 "))
}
