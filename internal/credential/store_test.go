package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyMD5Store_Deterministic(t *testing.T) {
	s := NewLegacyMD5Store()

	h1, err := s.Hash("secret123")
	assert.NoError(t, err)
	h2, err := s.Hash("secret123")
	assert.NoError(t, err)

	// 同じ入力は常に同じdigest（旧テーブル互換の前提）
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 32)
}

func TestLegacyMD5Store_KnownVector(t *testing.T) {
	s := NewLegacyMD5Store()

	h, err := s.Hash("password")
	assert.NoError(t, err)
	assert.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", h)
}

func TestLegacyMD5Store_Verify(t *testing.T) {
	s := NewLegacyMD5Store()

	h, _ := s.Hash("secret123")
	assert.True(t, s.Verify("secret123", h))
	assert.False(t, s.Verify("secret123x", h))
	assert.False(t, s.Verify("", h))
}

func TestBcryptStore_HashAndVerify(t *testing.T) {
	s := NewBcryptStore(4) // テストはコストを下げる

	h, err := s.Hash("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", h)

	assert.True(t, s.Verify("secret123", h))
	assert.False(t, s.Verify("secret123x", h))
}

func TestBcryptStore_DifferentDigestsStillVerify(t *testing.T) {
	s := NewBcryptStore(4)

	// bcryptはsalt入りなのでdigest自体は毎回違う
	h1, _ := s.Hash("secret123")
	h2, _ := s.Hash("secret123")
	assert.NotEqual(t, h1, h2)

	assert.True(t, s.Verify("secret123", h1))
	assert.True(t, s.Verify("secret123", h2))
}
