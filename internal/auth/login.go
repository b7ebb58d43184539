package auth

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Blackjack/internal/utils"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
}

// Handler logs players in with a wallet signature over a server nonce and
// hands back a JWT whose subject is the wallet address.
type Handler struct {
	secret []byte
	nonces *nonceStore
}

func NewHandler(secret string) *Handler {
	return &Handler{
		secret: []byte(secret),
		nonces: newNonceStore(),
	}
}

// SignMessage is the text the wallet signs for a nonce.
func SignMessage(nonce string) string {
	return "Sign this message to authenticate with Blackjack. Nonce: " + nonce
}

// messageHash matches what personal_sign hashes.
func messageHash(msg string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	return crypto.Keccak256Hash([]byte(prefixed)).Bytes()
}

// RecoverAddress returns the checksummed address that signed msg.
func RecoverAddress(msg, signature string) (string, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	// wallets send V as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(messageHash(msg), sig)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// IssueToken signs an HS256 token for address.
func IssueToken(secret []byte, address string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   address,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// POST /auth/login  body: {address, signature, nonce}
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !h.nonces.consume(req.Nonce) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}

	recovered, err := RecoverAddress(SignMessage(req.Nonce), req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verify failed"})
		return
	}
	if !strings.EqualFold(recovered, req.Address) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature mismatch"})
		return
	}

	token, err := IssueToken(h.secret, recovered, tokenTTL)
	if err != nil {
		utils.Log.Error("jwt generation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}
	utils.Log.Info("player logged in", "address", recovered)
	c.JSON(http.StatusOK, gin.H{"jwt": token, "address": recovered})
}
