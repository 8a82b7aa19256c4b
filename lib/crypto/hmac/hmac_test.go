package hmac

import (
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumMatchesHMACSHA256(t *testing.T) {
	data := make([]byte, 64)
	for idx := range data {
		data[idx] = 1
	}
	var k Key
	for idx := range k[:] {
		k[idx] = 1
	}

	mac := hmac.New(sha256.New, k[:])
	mac.Write(data)

	d := Sum(data, k)
	assert.Equal(t, mac.Sum(nil), d[:])
}

func TestSumDependsOnKeyAndData(t *testing.T) {
	var k1, k2 Key
	k2[0] = 1

	assert.Equal(t, Sum([]byte("a"), k1), Sum([]byte("a"), k1))
	assert.NotEqual(t, Sum([]byte("a"), k1), Sum([]byte("a"), k2))
	assert.NotEqual(t, Sum([]byte("a"), k1), Sum([]byte("b"), k1))
}

func TestNewKey(t *testing.T) {
	k1, err := NewKey()
	require.NoError(t, err)
	k2, err := NewKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, Key{}, k1)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]byte("secret"), []byte("secret")))
	assert.False(t, Equal([]byte("secret"), []byte("Secret")))
	assert.False(t, Equal([]byte("secret"), []byte("secret!")))
}
