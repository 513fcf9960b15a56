package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrypt(t *testing.T) {
	hashed, err := Crypt("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)
	assert.True(t, VerifyPassword("hunter22", hashed))
	assert.False(t, VerifyPassword("hunter23", hashed))
}

func TestSnowflakeUnique(t *testing.T) {
	seen := make(map[int64]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := NextID()
		require.Positive(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
}

func TestSnowflakeParse(t *testing.T) {
	s, err := NewSnowflake(3, 4)
	require.NoError(t, err)
	_, dc, worker, _ := s.ParseID(s.GenerateID())
	assert.Equal(t, int64(4), dc)
	assert.Equal(t, int64(3), worker)

	_, err = NewSnowflake(99, 0)
	assert.Error(t, err)
}

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration(`{"format":{"duration":"12.480000"}}`)
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 1e-9)

	d, err = parseProbeDuration(`{"streams":[{"codec_type":"audio","duration":"3.0"},{"codec_type":"video","duration":"7.5"}],"format":{}}`)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, d, 1e-9)

	_, err = parseProbeDuration(`{"format":{}}`)
	assert.Error(t, err)
}

func TestIsEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"a@b.io":           true,
		"first.last@x.com": true,
		"no-at-sign":       false,
		"Name <a@b.io>":    false,
		"a@localhost":      false,
		"":                 false,
	} {
		assert.Equal(t, want, IsEmail(email), email)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice", Normalize("  Alice "))
	assert.Equal(t, 5, ConvertStringToIntDefault("x", 5))
	assert.Equal(t, 3, ConvertStringToIntDefault(" 3 ", 5))
}
