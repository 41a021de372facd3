package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mentorly/config"
	"mentorly/internal/auth"

	"github.com/gin-gonic/gin"
)

const testAddr = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

type fakeVerifier struct {
	err error
}

func (f *fakeVerifier) Verify(context.Context, string, string, string) error {
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret: "test-secret",
			AccessExpiry: time.Hour,
			Issuer:       "mentorly-test",
		},
		Siwe: config.SiweConfig{NonceTTL: time.Minute},
	}
}

func newAuthRig(verifier auth.Verifier) (*gin.Engine, *auth.NonceStore, *config.Config) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	nonces := auth.NewNonceStore(cfg.Siwe.NonceTTL)
	h := NewAuthHandler(cfg, nonces, verifier)
	r := gin.New()
	r.POST("/auth/nonce", h.Nonce)
	r.POST("/auth/login", h.Login)
	return r, nonces, cfg
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_NonceThenLogin(t *testing.T) {
	r, _, cfg := newAuthRig(&fakeVerifier{})

	w := postJSON(r, "/auth/nonce", `{"address":"`+testAddr+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("nonce status = %d: %s", w.Code, w.Body)
	}
	var nonceResp struct {
		Nonce string `json:"nonce"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &nonceResp); err != nil || nonceResp.Nonce == "" {
		t.Fatalf("bad nonce response: %s", w.Body)
	}

	msg := "mentorly wants you to sign in\nNonce: " + nonceResp.Nonce
	body, _ := json.Marshal(map[string]string{
		"address":   testAddr,
		"message":   msg,
		"signature": "0xsigned",
	})
	w = postJSON(r, "/auth/login", string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body)
	}
	var loginResp struct {
		Token   string `json:"token"`
		Address string `json:"address"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil || loginResp.Token == "" {
		t.Fatalf("bad login response: %s", w.Body)
	}
	claims, err := auth.ParseAccessToken(&cfg.JWT, loginResp.Token)
	if err != nil || claims.Address != testAddr {
		t.Fatalf("issued token does not parse: %v", err)
	}
}

func TestAuthHandler_LoginWithoutNonce(t *testing.T) {
	r, _, _ := newAuthRig(&fakeVerifier{})
	w := postJSON(r, "/auth/login", `{"address":"`+testAddr+`","message":"m","signature":"s"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_LoginNonceMismatch(t *testing.T) {
	r, nonces, _ := newAuthRig(&fakeVerifier{})
	nonces.Issue(testAddr)
	// Message never mentions the issued nonce.
	w := postJSON(r, "/auth/login", `{"address":"`+testAddr+`","message":"sign me","signature":"s"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_LoginBadSignature(t *testing.T) {
	r, nonces, _ := newAuthRig(&fakeVerifier{err: auth.ErrVerificationFailed})
	nonce := nonces.Issue(testAddr)
	body, _ := json.Marshal(map[string]string{
		"address":   testAddr,
		"message":   "Nonce: " + nonce,
		"signature": "0xforged",
	})
	w := postJSON(r, "/auth/login", string(body))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_VerifierDown(t *testing.T) {
	r, nonces, _ := newAuthRig(&fakeVerifier{err: auth.ErrVerifierUnavailable})
	nonce := nonces.Issue(testAddr)
	body, _ := json.Marshal(map[string]string{
		"address":   testAddr,
		"message":   "Nonce: " + nonce,
		"signature": "0xsigned",
	})
	w := postJSON(r, "/auth/login", string(body))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestAuthHandler_InvalidAddress(t *testing.T) {
	r, _, _ := newAuthRig(&fakeVerifier{})
	w := postJSON(r, "/auth/nonce", `{"address":"not-an-address"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
