package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"deadline/internal/app"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/runtime"
)

func voiceTestContext(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

func TestRpcGetVoiceToken_GeneratesValidClaims(t *testing.T) {
	t.Cleanup(func() { voiceService = nil })

	voiceService = app.NewVoiceService("test-secret", "issuer", "example.com")

	ctx := voiceTestContext("user123")
	payload := `{"action":"login"}`

	raw1, err := RpcGetVoiceToken(ctx, noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("RpcGetVoiceToken error: %v", err)
	}
	token1 := extractToken(t, raw1)

	raw2, err := RpcGetVoiceToken(ctx, noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("RpcGetVoiceToken error: %v", err)
	}
	token2 := extractToken(t, raw2)

	claims1 := parseVoiceTokenClaims(t, token1, "test-secret")
	claims2 := parseVoiceTokenClaims(t, token2, "test-secret")

	assertClaim(t, claims1, "iss", "issuer")
	assertClaim(t, claims1, "sub", "user123")
	assertClaim(t, claims1, "vxa", app.VoiceTokenActionLogin)
	assertClaim(t, claims1, "f", "sip:.issuer.user123.@example.com")
	assertClaim(t, claims1, "t", "sip:.issuer.user123.@example.com")

	// vxi is the per-token nonce.
	vxi1, ok1 := claims1["vxi"]
	vxi2, ok2 := claims2["vxi"]
	if !ok1 || !ok2 {
		t.Fatal("vxi claim missing")
	}
	if vxi1 == vxi2 {
		t.Errorf("vxi claim must be unique per token. Got %v for both.", vxi1)
	}
}

func TestRpcGetVoiceToken_JoinTargetsChannel(t *testing.T) {
	t.Cleanup(func() { voiceService = nil })

	voiceService = app.NewVoiceService("test-secret", "issuer", "example.com")
	ctx := voiceTestContext("user123")

	raw, err := RpcGetVoiceToken(ctx, noopLogger{}, nil, nil, `{"action":"join","channel":"match-42"}`)
	if err != nil {
		t.Fatalf("RpcGetVoiceToken error: %v", err)
	}
	claims := parseVoiceTokenClaims(t, extractToken(t, raw), "test-secret")

	assertClaim(t, claims, "vxa", app.VoiceTokenActionJoin)
	assertClaim(t, claims, "t", "sip:confctl-g-match-42@example.com")
}

func TestRpcGetVoiceToken_JoinRequiresChannel(t *testing.T) {
	t.Cleanup(func() { voiceService = nil })

	voiceService = app.NewVoiceService("test-secret", "issuer", "example.com")
	ctx := voiceTestContext("user123")

	if _, err := RpcGetVoiceToken(ctx, noopLogger{}, nil, nil, `{"action":"join"}`); err == nil {
		t.Fatal("expected join without a channel to be rejected")
	}
}

func TestRpcGetVoiceToken_RequiresConfiguration(t *testing.T) {
	ctx := voiceTestContext("user123")
	if _, err := RpcGetVoiceToken(ctx, noopLogger{}, nil, nil, `{"action":"login"}`); err == nil {
		t.Fatal("expected unconfigured voice service to be rejected")
	}
}

func TestRpcGetVoiceToken_RequiresUser(t *testing.T) {
	t.Cleanup(func() { voiceService = nil })

	voiceService = app.NewVoiceService("test-secret", "issuer", "example.com")
	if _, err := RpcGetVoiceToken(context.Background(), noopLogger{}, nil, nil, `{"action":"login"}`); err == nil {
		t.Fatal("expected anonymous request to be rejected")
	}
}

func extractToken(t *testing.T, jsonRaw string) string {
	t.Helper()
	var resp voiceTokenResponse
	if err := json.Unmarshal([]byte(jsonRaw), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected token in response")
	}
	return resp.Token
}

func parseVoiceTokenClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func assertClaim(t *testing.T, claims jwt.MapClaims, key, expected string) {
	t.Helper()
	val, ok := claims[key]
	if !ok {
		t.Errorf("missing claim: %s", key)
		return
	}
	str, ok := val.(string)
	if !ok {
		t.Errorf("claim %s is not a string: %v", key, val)
		return
	}
	if str != expected {
		t.Errorf("claim %s = %s, want %s", key, str, expected)
	}
}
