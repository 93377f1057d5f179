// Package wallet talks to the local wallet agent. The agent plays the role a
// browser wallet extension plays for a web dapp: it holds the keys, shows the
// user an approval prompt, signs, and broadcasts. This client only submits
// requests and waits for the user's verdict.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AdekunleBamz/ebook-store/internal/chain"
	"github.com/AdekunleBamz/ebook-store/internal/session"
)

// Agent errors.
var (
	// ErrRejected is returned when the user declines the request in the
	// wallet UI.
	ErrRejected = errors.New("request rejected in wallet")
	// ErrNotConnected is returned when the agent does not recognize the
	// session token. Connecting again establishes a fresh one.
	ErrNotConnected = errors.New("wallet session expired — run 'ebookstore connect'")
	// ErrAgentUnreachable is returned when the agent is not listening.
	ErrAgentUnreachable = errors.New("wallet agent unreachable — is it running?")
)

// Client is an HTTP client for the wallet agent.
type Client struct {
	baseURL string
	http    *http.Client

	// pollInterval controls how often an approval request is re-checked.
	pollInterval time.Duration
}

// New creates a Client for the agent at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		pollInterval: time.Second,
	}
}

// ContractCall describes one contract-call transaction for the agent to
// sign and broadcast.
type ContractCall struct {
	Contract chain.ContractID
	Function string
	Args     []chain.Value
	Network  string
}

// Receipt is returned once the signed transaction has been accepted for
// broadcast. It says nothing about confirmation.
type Receipt struct {
	TxID string `json:"txid"`
}

type connectResponse struct {
	session.Profile
}

type signRequest struct {
	Network   string   `json:"network"`
	Contract  string   `json:"contract"`
	Function  string   `json:"function"`
	Arguments []string `json:"arguments"`
}

type signRequestStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"` // pending | approved | rejected
	TxID   string `json:"txid"`
}

// Connect triggers the agent's authorization flow and returns the profile it
// reports. The agent may put up its own UI; this blocks until the user
// finishes or ctx ends.
func (c *Client) Connect(ctx context.Context) (*session.Profile, error) {
	var resp connectResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/v1/connect", "", nil, &resp); err != nil {
		return nil, err
	}
	if resp.MainnetAddress == "" && resp.TestnetAddress == "" {
		return nil, fmt.Errorf("wallet agent returned no addresses")
	}
	return &resp.Profile, nil
}

// SignContractCall submits the call to the agent and waits for the user to
// approve or reject it. Approval waits are unbounded except by ctx.
func (c *Client) SignContractCall(ctx context.Context, token string, call ContractCall) (*Receipt, error) {
	hexArgs := make([]string, len(call.Args))
	for i, a := range call.Args {
		h, err := a.EncodeHex()
		if err != nil {
			return nil, fmt.Errorf("encoding argument %d: %w", i, err)
		}
		hexArgs[i] = h
	}

	var st signRequestStatus
	req := signRequest{
		Network:   call.Network,
		Contract:  call.Contract.String(),
		Function:  call.Function,
		Arguments: hexArgs,
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/v1/sign/contract-call", token, req, &st); err != nil {
		return nil, err
	}

	for {
		switch st.Status {
		case "approved":
			return &Receipt{TxID: st.TxID}, nil
		case "rejected":
			return nil, ErrRejected
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		url := c.baseURL + "/v1/sign/requests/" + st.ID
		if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &st); err != nil {
			return nil, err
		}
	}
}

// doJSON sends a request with the agent session token and decodes the JSON
// response into out.
func (c *Client) doJSON(ctx context.Context, method, url, token string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrAgentUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	case http.StatusUnauthorized:
		return ErrNotConnected
	case http.StatusForbidden:
		return ErrRejected
	default:
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("wallet agent error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
