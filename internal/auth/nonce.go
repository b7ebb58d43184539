package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const nonceTTL = 5 * time.Minute

// nonceStore hands out single-use login nonces.
type nonceStore struct {
	mu     sync.Mutex
	nonces map[string]time.Time // nonce -> expiry
	now    func() time.Time
}

func newNonceStore() *nonceStore {
	return &nonceStore{nonces: make(map[string]time.Time), now: time.Now}
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *nonceStore) issue() (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for n, exp := range s.nonces {
		if now.After(exp) {
			delete(s.nonces, n)
		}
	}
	s.nonces[nonce] = now.Add(nonceTTL)
	return nonce, nil
}

// consume reports whether nonce was live, and burns it either way.
func (s *nonceStore) consume(nonce string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.nonces[nonce]
	delete(s.nonces, nonce)
	return ok && !s.now().After(exp)
}

// GET|POST /auth/nonce
func (h *Handler) Nonce(c *gin.Context) {
	nonce, err := h.nonces.issue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nonce": nonce, "message": SignMessage(nonce)})
}
