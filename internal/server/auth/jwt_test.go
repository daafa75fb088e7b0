package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/mlipchinski/authkeeper/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", "alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", claims.UserID, "user-123")
	}
	if claims.Username != "alice" {
		t.Fatalf("username mismatch: got %q want %q", claims.Username, "alice")
	}

	ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if ttl != time.Hour {
		t.Fatalf("expected expiresAt = issuedAt + 1h, got %v", ttl)
	}
}

func TestParseToken_Idempotent(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken("u1", "bob", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	first, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("first ParseToken error: %v", err)
	}
	second, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("second ParseToken error: %v", err)
	}
	if first.UserID != second.UserID || first.Username != second.Username {
		t.Fatalf("verification is not a pure function of the token string")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", "bob", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if err != common.ErrTokenExpired {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", "carol", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_Tampered(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken("u3", "dave", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// corrupt one character in each segment in turn
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}

	for i := range parts {
		mangled := make([]string, 3)
		copy(mangled, parts)

		seg := []byte(mangled[i])
		if seg[0] == 'A' {
			seg[0] = 'B'
		} else {
			seg[0] = 'A'
		}
		mangled[i] = string(seg)

		if _, err := ParseToken(strings.Join(mangled, "."), secret); err == nil {
			t.Fatalf("expected error for token with tampered segment %d", i)
		}
	}
}

func TestGenerateToken_DistinctPerIssuance(t *testing.T) {
	t.Parallel()

	secret := []byte("k")

	tok1, err := GenerateToken("u4", "erin", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // iat has second precision
	tok2, err := GenerateToken("u4", "erin", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if tok1 == tok2 {
		t.Fatalf("two issuances at different instants produced the same token")
	}
}
