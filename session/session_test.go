package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestFromIDToken(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	tok := signedToken(t, jwt.MapClaims{
		"sub":   "u1",
		"email": "sam@example.com",
		"name":  "Sam",
		"exp":   exp.Unix(),
	})

	sess, err := FromIDToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sess.UserID != "u1" || sess.Email != "sam@example.com" || sess.DisplayName != "Sam" {
		t.Fatalf("claims not extracted: %+v", sess)
	}
	if sess.ExpiresAt.Unix() != exp.Unix() {
		t.Fatalf("expiry wrong: %v", sess.ExpiresAt)
	}
	if sess.Expired(time.Now()) {
		t.Fatalf("session should not be expired yet")
	}
	if !sess.Expired(exp.Add(time.Minute)) {
		t.Fatalf("session should expire after exp")
	}
}

func TestFromIDTokenBearerPrefix(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "u1"})
	sess, err := FromIDToken("Bearer " + tok)
	if err != nil {
		t.Fatalf("parse with prefix: %v", err)
	}
	if sess.UserID != "u1" {
		t.Fatalf("subject not extracted")
	}
}

func TestFromIDTokenRejectsGarbage(t *testing.T) {
	if _, err := FromIDToken(""); err == nil {
		t.Fatalf("empty token should fail")
	}
	if _, err := FromIDToken("not-a-jwt"); err == nil {
		t.Fatalf("malformed token should fail")
	}

	noSub := signedToken(t, jwt.MapClaims{"email": "x@y.z"})
	if _, err := FromIDToken(noSub); err == nil {
		t.Fatalf("token without subject should fail")
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()

	var events []*Session
	m.Subscribe(func(s *Session) { events = append(events, s) })

	if m.Current() != nil || m.Token() != "" {
		t.Fatalf("fresh manager should be signed out")
	}

	sess := &Session{UserID: "u1", Token: "tok"}
	m.Set(sess)
	if m.Current() != sess || m.Token() != "tok" {
		t.Fatalf("set did not take")
	}

	m.Clear()
	if m.Current() != nil || m.Token() != "" {
		t.Fatalf("clear did not sign out")
	}

	if len(events) != 2 || events[0] != sess || events[1] != nil {
		t.Fatalf("listener events wrong: %+v", events)
	}
}
