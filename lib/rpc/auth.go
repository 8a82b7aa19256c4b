package rpc

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/go-i2p/cipherlab/lib/crypto/hmac"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword is returned by Authenticate for a wrong password.
var ErrInvalidPassword = errors.New("invalid password")

// AuthManager issues and checks the tokens RPC clients send with every
// call after Authenticate. Safe for concurrent use.
//
// The password is checked either in constant time against a plain
// password or with bcrypt against a hash; a non-empty hash wins.
type AuthManager struct {
	password     string
	passwordHash []byte
	tokens       map[string]time.Time
	counter      uint64
	mu           sync.RWMutex
	secret       hmac.Key
}

// NewAuthManager creates an authentication manager with a fresh random
// HMAC secret, so tokens never survive a restart.
func NewAuthManager(password, passwordHash string) (*AuthManager, error) {
	if password == "" && passwordHash == "" {
		return nil, oops.Errorf("rpc: password or password hash required")
	}

	secret, err := hmac.NewKey()
	if err != nil {
		return nil, oops.Wrapf(err, "rpc: failed to generate token secret")
	}

	return &AuthManager{
		password:     password,
		passwordHash: []byte(passwordHash),
		tokens:       make(map[string]time.Time),
		secret:       secret,
	}, nil
}

// Authenticate checks password and returns a token valid for expiration.
func (am *AuthManager) Authenticate(password string, expiration time.Duration) (string, error) {
	am.mu.RLock()
	ok := am.checkPassword(password)
	am.mu.RUnlock()

	if !ok {
		return "", ErrInvalidPassword
	}

	am.mu.Lock()
	am.counter++
	token := am.generateToken(time.Now().UnixNano(), am.counter)
	am.tokens[token] = time.Now().Add(expiration)
	am.mu.Unlock()

	log.WithField("at", "(AuthManager).Authenticate").
		Debug("generated authentication token")

	return token, nil
}

// checkPassword must be called with am.mu held.
func (am *AuthManager) checkPassword(password string) bool {
	if len(am.passwordHash) > 0 {
		return bcrypt.CompareHashAndPassword(am.passwordHash, []byte(password)) == nil
	}
	return hmac.Equal([]byte(password), []byte(am.password))
}

// ValidateToken reports whether token was issued and has not expired.
// Expired tokens are dropped as they are found.
func (am *AuthManager) ValidateToken(token string) bool {
	am.mu.RLock()
	expiration, exists := am.tokens[token]
	am.mu.RUnlock()

	if !exists {
		return false
	}

	if time.Now().After(expiration) {
		am.mu.Lock()
		delete(am.tokens, token)
		am.mu.Unlock()

		log.WithField("at", "(AuthManager).ValidateToken").
			Debug("token expired and removed")
		return false
	}

	return true
}

// RevokeToken removes a token from the valid token set.
func (am *AuthManager) RevokeToken(token string) {
	am.mu.Lock()
	delete(am.tokens, token)
	am.mu.Unlock()

	log.WithField("at", "(AuthManager).RevokeToken").
		Debug("token revoked")
}

// CleanupExpiredTokens removes all expired tokens and returns how many.
func (am *AuthManager) CleanupExpiredTokens() int {
	now := time.Now()
	removed := 0

	am.mu.Lock()
	for token, expiration := range am.tokens {
		if now.After(expiration) {
			delete(am.tokens, token)
			removed++
		}
	}
	am.mu.Unlock()

	if removed > 0 {
		log.WithFields(logger.Fields{
			"at":      "(AuthManager).CleanupExpiredTokens",
			"removed": removed,
		}).Debug("cleaned up expired tokens")
	}

	return removed
}

// TokenCount returns the number of stored tokens, expired or not.
func (am *AuthManager) TokenCount() int {
	am.mu.RLock()
	defer am.mu.RUnlock()
	return len(am.tokens)
}

// ChangePassword replaces the credentials and revokes every token.
// It returns the number of revoked tokens.
func (am *AuthManager) ChangePassword(password, passwordHash string) int {
	am.mu.Lock()
	defer am.mu.Unlock()

	am.password = password
	am.passwordHash = []byte(passwordHash)

	revoked := len(am.tokens)
	am.tokens = make(map[string]time.Time)

	log.WithFields(logger.Fields{
		"at":      "(AuthManager).ChangePassword",
		"revoked": revoked,
	}).Info("password changed, all tokens revoked")

	return revoked
}

// generateToken signs the timestamp and a per-manager counter so tokens
// issued within the same clock tick still differ.
func (am *AuthManager) generateToken(timestamp int64, counter uint64) string {
	var msg [16]byte
	binary.BigEndian.PutUint64(msg[:8], uint64(timestamp))
	binary.BigEndian.PutUint64(msg[8:], counter)

	d := hmac.Sum(msg[:], am.secret)
	return base64.StdEncoding.EncodeToString(d[:])
}
