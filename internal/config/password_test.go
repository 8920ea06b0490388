package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name         string
		cost         string
		pepper       string
		expectedCost int
		wantErr      bool
	}{
		{"default cost", "", "", DefaultBcryptCost, false},
		{"minimum cost", "10", "", 10, false},
		{"maximum cost", "14", "", 14, false},
		{"with pepper", "11", "pepper-value", 11, false},
		{"cost too low", "9", "", 0, true},
		{"cost too high", "15", "", 0, true},
		{"invalid cost", "twelve", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg, err := NewPasswordConfigWith(MinBcryptCost, "")
	require.NoError(t, err)

	hash, err := cfg.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	assert.True(t, cfg.VerifyPassword("secret123", hash))
	assert.False(t, cfg.VerifyPassword("secret124", hash))
	assert.False(t, cfg.VerifyPassword("", hash))
	assert.False(t, cfg.VerifyPassword("secret123", "not-a-hash"))
}

func TestPasswordConfig_SaltUniqueness(t *testing.T) {
	cfg, err := NewPasswordConfigWith(MinBcryptCost, "")
	require.NoError(t, err)

	h1, err := cfg.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := cfg.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "bcrypt salts each hash")
	assert.True(t, cfg.VerifyPassword("same-password", h1))
	assert.True(t, cfg.VerifyPassword("same-password", h2))
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered, err := NewPasswordConfigWith(MinBcryptCost, "server-pepper")
	require.NoError(t, err)
	plain, err := NewPasswordConfigWith(MinBcryptCost, "")
	require.NoError(t, err)

	hash, err := peppered.HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("secret123", hash))
	assert.False(t, plain.VerifyPassword("secret123", hash), "hash is bound to the pepper")

	rotated, err := NewPasswordConfigWith(MinBcryptCost, "other-pepper")
	require.NoError(t, err)
	assert.False(t, rotated.VerifyPassword("secret123", hash))
}

func TestPasswordConfig_TooLong(t *testing.T) {
	cfg, err := NewPasswordConfigWith(MinBcryptCost, "pepper")
	require.NoError(t, err)

	_, err = cfg.HashPassword(strings.Repeat("a", 67))
	assert.ErrorIs(t, err, ErrPasswordTooLong, "password plus pepper exceeds 72 bytes")

	_, err = cfg.HashPassword(strings.Repeat("a", 66))
	assert.NoError(t, err)
}

func TestPasswordConfig_ConcurrentAccess(t *testing.T) {
	cfg, err := NewPasswordConfigWith(MinBcryptCost, "")
	require.NoError(t, err)
	hash, err := cfg.HashPassword("shared")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, cfg.VerifyPassword("shared", hash))
		}()
	}
	wg.Wait()
}

func BenchmarkHashPassword_Cost10(b *testing.B) {
	cfg, _ := NewPasswordConfigWith(10, "")
	for i := 0; i < b.N; i++ {
		_, _ = cfg.HashPassword("benchmark-password")
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	cfg, _ := NewPasswordConfigWith(10, "")
	hash, _ := cfg.HashPassword("benchmark-password")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg.VerifyPassword("benchmark-password", hash)
	}
}
