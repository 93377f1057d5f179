package chain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ContractID names a deployed contract.
type ContractID struct {
	Address string // c32 principal of the deployer
	Name    string
}

func (c ContractID) String() string {
	return c.Address + "." + c.Name
}

// ParseContractID parses "ADDRESS.contract-name", validating the address.
func ParseContractID(s string) (ContractID, error) {
	i := strings.IndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return ContractID{}, fmt.Errorf("contract id %q: want ADDRESS.name", s)
	}
	addr, name := s[:i], s[i+1:]
	if _, _, err := DecodeAddress(addr); err != nil {
		return ContractID{}, fmt.Errorf("contract id %q: %w", s, err)
	}
	return ContractID{Address: addr, Name: name}, nil
}

type callReadRequest struct {
	Sender    string   `json:"sender"`
	Arguments []string `json:"arguments"`
}

type callReadResponse struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Cause  string `json:"cause"`
}

// CallReadOnly executes a read-only contract function on the node and
// decodes the returned Clarity value. sender may be any principal; the
// contract's own address is used when it is empty.
func (c *Client) CallReadOnly(ctx context.Context, contract ContractID, fn, sender string, args ...Value) (Value, error) {
	if sender == "" {
		sender = contract.Address
	}
	hexArgs := make([]string, len(args))
	for i, a := range args {
		h, err := a.EncodeHex()
		if err != nil {
			return Value{}, fmt.Errorf("encoding argument %d of %s: %w", i, fn, err)
		}
		hexArgs[i] = h
	}

	url := c.url("v2", "contracts", "call-read", contract.Address, contract.Name, fn)
	var resp callReadResponse
	err := c.doJSON(ctx, http.MethodPost, url, callReadRequest{Sender: sender, Arguments: hexArgs}, &resp)
	if err != nil {
		return Value{}, fmt.Errorf("call-read %s: %w", fn, err)
	}
	if !resp.Okay {
		return Value{}, &CallError{Function: fn, Cause: resp.Cause}
	}
	v, err := DecodeHex(resp.Result)
	if err != nil {
		return Value{}, fmt.Errorf("decoding result of %s: %w", fn, err)
	}
	return v, nil
}
