package auth

import (
	"testing"

	"gatehouse/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	password := "secret123"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_HashProducesUniqueSalts(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash1, err := hasher.Hash("secret123")
	assert.NoError(t, err)
	hash2, err := hasher.Hash("secret123")
	assert.NoError(t, err)

	// Same plaintext, different salts, different digests.
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, hasher.Check("secret123", hash1))
	assert.True(t, hasher.Check("secret123", hash2))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	password := "secret123"

	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("wrong-password", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_CostFromConfig(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 6},
	}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("secret123")
	assert.NoError(t, err)

	// Verify the hash uses the configured cost
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, 6, cost)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	impl, ok := hasher.(*bcryptHasher)
	assert.True(t, ok)
	assert.Equal(t, bcrypt.DefaultCost, impl.cost)
}
