package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash_And_CompareHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "regular password",
			password: "superSecret123",
		},
		{
			name:     "password with special characters",
			password: "p@$$w0rd!#%",
		},
		{
			name:     "short password",
			password: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
		})
	}
}

func TestCompareHash_WrongPassword(t *testing.T) {
	hash, err := GetHash("correct-password")
	require.NoError(t, err)

	assert.Error(t, CompareHash(hash, "wrong-password"))
	assert.Error(t, CompareHash(hash, ""))
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "correct-password"))
}

func TestGetHash_UniqueSalts(t *testing.T) {
	first, err := GetHash("same-password")
	require.NoError(t, err)
	second, err := GetHash("same-password")
	require.NoError(t, err)

	// Соль генерируется заново, хэши одного пароля не совпадают.
	assert.NotEqual(t, first, second)
}
