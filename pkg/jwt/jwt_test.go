package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "a@x.com", "admin")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.Email != "a@x.com" || claims.Role != "admin" || claims.Subject != id.String() {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejects(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, _ := m.GenerateToken(uuid.New(), "a@x.com", "user")

	other := NewManager("other", time.Hour)
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v", err)
	}
	if _, err := m.ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := m.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: err = %v", err)
	}

	nilUser, _ := m.GenerateToken(uuid.Nil, "a@x.com", "user")
	if _, err := m.ValidateToken(nilUser); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("nil user: err = %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken(uuid.New(), "a@x.com", "user")
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: err = %v", err)
	}
}

func TestDefaultExpiry(t *testing.T) {
	if m := NewManager("s", 0); m.expires != 24*time.Hour {
		t.Errorf("expires = %v", m.expires)
	}
}
