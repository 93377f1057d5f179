package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AdekunleBamz/ebook-store/internal/chain"
)

var testCall = ContractCall{
	Contract: chain.ContractID{Address: "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM", Name: "ebook-store"},
	Function: "buy-ebook",
	Args:     []chain.Value{chain.UintValue(1)},
	Network:  "testnet",
}

func testClient(srv *httptest.Server) *Client {
	c := New(srv.URL)
	c.pollInterval = time.Millisecond
	return c
}

func TestConnect_ReturnsProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/connect" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"displayName":    "alice",
			"mainnetAddress": "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7",
			"testnetAddress": "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM",
			"sessionToken":   "tok-123",
		})
	}))
	defer srv.Close()

	p, err := testClient(srv).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if p.DisplayName != "alice" || p.SessionToken != "tok-123" {
		t.Errorf("profile = %+v", p)
	}
}

func TestConnect_NoAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	if _, err := testClient(srv).Connect(context.Background()); err == nil {
		t.Error("Connect accepted a profile with no addresses")
	}
}

func TestConnect_DeclinedInWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv).Connect(context.Background())
	if !errors.Is(err, ErrRejected) {
		t.Errorf("error = %v, want ErrRejected", err)
	}
}

func TestSignContractCall_ApprovedAfterPolling(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/sign/contract-call":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				t.Errorf("missing session token, got %q", r.Header.Get("Authorization"))
			}
			var req signRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Function != "buy-ebook" || len(req.Arguments) != 1 {
				t.Errorf("sign request = %+v", req)
			}
			_ = json.NewEncoder(w).Encode(signRequestStatus{ID: "req-1", Status: "pending"})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/sign/requests/req-1":
			st := signRequestStatus{ID: "req-1", Status: "pending"}
			if atomic.AddInt32(&polls, 1) >= 3 {
				st.Status = "approved"
				st.TxID = "0xfeed"
			}
			_ = json.NewEncoder(w).Encode(st)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	rcpt, err := testClient(srv).SignContractCall(context.Background(), "tok-123", testCall)
	if err != nil {
		t.Fatalf("SignContractCall: %v", err)
	}
	if rcpt.TxID != "0xfeed" {
		t.Errorf("TxID = %q", rcpt.TxID)
	}
	if atomic.LoadInt32(&polls) < 3 {
		t.Errorf("polled %d times, want ≥3", polls)
	}
}

func TestSignContractCall_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(signRequestStatus{ID: "req-1", Status: "rejected"})
	}))
	defer srv.Close()

	_, err := testClient(srv).SignContractCall(context.Background(), "tok", testCall)
	if !errors.Is(err, ErrRejected) {
		t.Errorf("error = %v, want ErrRejected", err)
	}
}

func TestSignContractCall_ContextCancelsWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(signRequestStatus{ID: "req-1", Status: "pending"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := testClient(srv).SignContractCall(ctx, "tok", testCall)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv).SignContractCall(context.Background(), "stale", testCall)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("error = %v, want ErrNotConnected", err)
	}
}
