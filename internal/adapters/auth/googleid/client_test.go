package googleid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	mem "pet-school-registry/internal/adapters/storage/memory"
	"pet-school-registry/internal/platform/httpclient"
)

func newFakeTokenInfo(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	httpc, err := httpclient.NewWithBaseURL(ts.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	return NewClientWithHTTP("my-client-id", httpc)
}

func TestVerifyIDToken_OK(t *testing.T) {
	c := newFakeTokenInfo(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_token"); got != "tok-1" {
			t.Errorf("unexpected id_token %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub": "115010101",
			"aud": "my-client-id",
		})
	})

	sub, err := c.VerifyIDToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "115010101" {
		t.Fatalf("sub mismatch: %q", sub)
	}
}

func TestVerifyIDToken_WrongAudience(t *testing.T) {
	c := newFakeTokenInfo(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub": "115010101",
			"aud": "someone-elses-app",
		})
	})

	if _, err := c.VerifyIDToken(context.Background(), "tok-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong aud, got %v", err)
	}
}

func TestVerifyIDToken_RejectedToken(t *testing.T) {
	// tokeninfo responde 400 para tokens inválidos o expirados
	c := newFakeTokenInfo(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
	})

	if _, err := c.VerifyIDToken(context.Background(), "expired"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for 400, got %v", err)
	}
}

func TestVerifyIDToken_UpstreamDown(t *testing.T) {
	c := newFakeTokenInfo(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})

	if _, err := c.VerifyIDToken(context.Background(), "tok-1"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for 500, got %v", err)
	}
}

func TestVerifier_PrefixesIdentity(t *testing.T) {
	c := newFakeTokenInfo(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub": "42",
			"aud": "my-client-id",
		})
	})

	claims, err := NewVerifier(c).Verify(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.OwnerID != "Owner42" {
		t.Fatalf("expected Owner42, got %q", claims.OwnerID)
	}
}

func TestFlow_AuthURLPersistsSingleUseState(t *testing.T) {
	states := mem.NewStateStore()
	flow := NewFlow(FlowConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://app/oauth"}, states)

	raw, err := flow.AuthURL(context.Background())
	if err != nil {
		t.Fatalf("auth url: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	state := u.Query().Get("state")
	if state == "" {
		t.Fatalf("auth url missing state: %s", raw)
	}

	ok, err := states.Consume(context.Background(), state)
	if err != nil || !ok {
		t.Fatalf("state was not persisted: ok=%v err=%v", ok, err)
	}

	// Un solo uso
	ok, _ = states.Consume(context.Background(), state)
	if ok {
		t.Fatal("state must be consumable exactly once")
	}
}

func TestFlow_ExchangeRejectsUnknownState(t *testing.T) {
	flow := NewFlow(FlowConfig{ClientID: "id", ClientSecret: "secret"}, mem.NewStateStore())

	if _, err := flow.Exchange(context.Background(), "never-issued", "code"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
