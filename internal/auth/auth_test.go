package auth

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walletSign signs like personal_sign, with V as 27/28.
func walletSign(t *testing.T, key *ecdsa.PrivateKey, msg string) string {
	t.Helper()
	sig, err := crypto.Sign(messageHash(msg), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return "0x" + hex.EncodeToString(sig)
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/nonce", h.Nonce)
	r.POST("/auth/login", h.Login)
	return r
}

func post(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func fetchNonce(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := post(r, "/auth/nonce", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Nonce   string `json:"nonce"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Nonce, 32)
	require.Equal(t, SignMessage(resp.Nonce), resp.Message)
	return resp.Nonce
}

func TestRecoverAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey).Hex()

	got, err := RecoverAddress("hello", walletSign(t, key, "hello"))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = RecoverAddress("hello", "0x1234")
	assert.Error(t, err)
	_, err = RecoverAddress("hello", "zz")
	assert.Error(t, err)
}

func TestLoginFlow(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey).Hex()

	h := NewHandler("secret")
	r := newRouter(h)
	nonce := fetchNonce(t, r)

	req := LoginRequest{Address: addr, Nonce: nonce, Signature: walletSign(t, key, SignMessage(nonce))}
	w := post(r, "/auth/login", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		JWT string `json:"jwt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(resp.JWT, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, addr, claims.Subject)

	// nonces are single use
	w = post(r, "/auth/login", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsOtherSigner(t *testing.T) {
	signer, _ := crypto.GenerateKey()
	victim, _ := crypto.GenerateKey()

	r := newRouter(NewHandler("secret"))
	nonce := fetchNonce(t, r)

	w := post(r, "/auth/login", LoginRequest{
		Address:   crypto.PubkeyToAddress(victim.PublicKey).Hex(),
		Nonce:     nonce,
		Signature: walletSign(t, signer, SignMessage(nonce)),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginBadRequests(t *testing.T) {
	r := newRouter(NewHandler("secret"))

	w := post(r, "/auth/login", map[string]string{"address": "0x1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/auth/login", LoginRequest{Address: "0x1", Nonce: "unknown", Signature: "0x00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	nonce := fetchNonce(t, r)
	w = post(r, "/auth/login", LoginRequest{Address: "0x1", Nonce: nonce, Signature: "0x00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNonceExpiry(t *testing.T) {
	s := newNonceStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	n, err := s.issue()
	require.NoError(t, err)

	now = now.Add(nonceTTL + time.Second)
	assert.False(t, s.consume(n))

	n, err = s.issue()
	require.NoError(t, err)
	assert.True(t, s.consume(n))
	assert.False(t, s.consume(n))
}

func TestIssueToken(t *testing.T) {
	tok, err := IssueToken([]byte("k"), "0xAbc", time.Hour)
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil })
	require.NoError(t, err)
	assert.Equal(t, "0xAbc", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}
