package jwt

import (
	"testing"

	httpx "github.com/worklane/worklane/pkg/http"
	"github.com/worklane/worklane/pkg/log"
)

func TestJwt(t *testing.T) {
	log.MustInit(log.SetDefaults())

	userId := "1"
	email := "owner@worklane.dev"
	secretKey := []byte("1111111111111111")

	aToken, rToken, err := GenToken(userId, email, secretKey, 60, 7*24*60)
	if err != nil {
		t.Fatalf("GenToken error: %v", err)
	}

	claims, err := ParseToken(aToken, string(secretKey))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserId != userId {
		t.Errorf("expected userId %s, got %s", userId, claims.UserId)
	}
	if claims.Email != email {
		t.Errorf("expected email %s, got %s", email, claims.Email)
	}
	t.Logf("aToken: %s, rToken: %s", aToken, rToken)
}

func TestParseTokenWrongSecret(t *testing.T) {
	log.MustInit(log.SetDefaults())

	aToken, _, err := GenToken("1", "a@b.com", []byte("secret-a"), 60, 120)
	if err != nil {
		t.Fatalf("GenToken error: %v", err)
	}

	if _, err := ParseToken(aToken, "secret-b"); err == nil {
		t.Error("expected parse error with wrong secret")
	}
}

func TestRefreshToken(t *testing.T) {
	log.MustInit(log.SetDefaults())

	userId := "1"
	email := "staff@worklane.dev"
	secretKey := "bf284d03-ba65-42d4-a9fe-0d2fbfe61060"
	aToken, rToken, err := GenToken(userId, email, []byte(secretKey), 60, 120)
	if err != nil {
		t.Fatalf("GenToken error: %v", err)
	}
	t.Logf("aToken: %s\n rToken: %s", aToken, rToken)

	auth := &httpx.Auth{
		SecretKey:     secretKey,
		AccessExpire:  60,
		RefreshExpire: 120,
	}
	newTokens, err := RefreshToken(auth, userId, email, rToken)
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if newTokens["accessToken"] == "" || newTokens["refreshToken"] == "" {
		t.Error("expected refreshed token pair")
	}
}
