package chain

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
)

// Principal identifies an account (and optionally a contract it owns).
type Principal struct {
	Version  byte
	Hash     [20]byte
	Contract string // empty for standard principals
}

// c32 is Crockford base32 without I, L, O, U.
const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var c32Index = func() [128]int8 {
	var idx [128]int8
	for i := range idx {
		idx[i] = -1
	}
	for i, c := range c32Alphabet {
		idx[c] = int8(i)
	}
	// Homoglyphs accepted on decode.
	idx['O'] = 0
	idx['L'] = 1
	idx['I'] = 1
	return idx
}()

// String renders the principal as a c32 address, with ".contract" appended
// for contract principals.
func (p Principal) String() string {
	addr := EncodeAddress(p.Version, p.Hash)
	if p.Contract != "" {
		return addr + "." + p.Contract
	}
	return addr
}

// ParsePrincipal parses "SP…" or "SP….contract-name".
func ParsePrincipal(s string) (Principal, error) {
	var p Principal
	addr := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		addr, p.Contract = s[:i], s[i+1:]
		if p.Contract == "" {
			return Principal{}, fmt.Errorf("empty contract name in %q", s)
		}
	}
	version, hash, err := DecodeAddress(addr)
	if err != nil {
		return Principal{}, err
	}
	p.Version = version
	p.Hash = hash
	return p, nil
}

// EncodeAddress renders a version byte and hash160 as a c32check address.
func EncodeAddress(version byte, hash [20]byte) string {
	payload := append(hash[:], checksum(version, hash[:])...)
	return "S" + string(c32Alphabet[version&0x1f]) + c32Encode(payload)
}

// DecodeAddress parses a c32check address back into version and hash160.
// Lowercase input and the usual Crockford homoglyphs are accepted.
func DecodeAddress(addr string) (byte, [20]byte, error) {
	var hash [20]byte
	addr = strings.ToUpper(addr)
	if len(addr) < 3 || addr[0] != 'S' {
		return 0, hash, fmt.Errorf("invalid address %q", addr)
	}
	if addr[1] >= 128 || c32Index[addr[1]] < 0 {
		return 0, hash, fmt.Errorf("invalid address version char %q", addr[1])
	}
	version := byte(c32Index[addr[1]])

	payload, err := c32Decode(addr[2:])
	if err != nil {
		return 0, hash, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if len(payload) != 24 {
		return 0, hash, fmt.Errorf("invalid address %q: payload is %d bytes", addr, len(payload))
	}
	copy(hash[:], payload[:20])
	want := checksum(version, payload[:20])
	got := payload[20:]
	for i := range want {
		if want[i] != got[i] {
			return 0, hash, fmt.Errorf("invalid address %q: bad checksum", addr)
		}
	}
	return version, hash, nil
}

// checksum is the first four bytes of sha256d(version || data).
func checksum(version byte, data []byte) []byte {
	h := sha256.Sum256(append([]byte{version}, data...))
	h = sha256.Sum256(h[:])
	return h[:4]
}

func c32Encode(data []byte) string {
	n := new(big.Int).SetBytes(data)
	base := big.NewInt(32)
	mod := new(big.Int)
	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, c32Alphabet[mod.Int64()])
	}
	// One leading zero digit per leading zero byte.
	for _, b := range data {
		if b != 0 {
			break
		}
		out = append(out, '0')
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func c32Decode(s string) ([]byte, error) {
	n := new(big.Int)
	base := big.NewInt(32)
	leadingZeros := 0
	counting := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 128 || c32Index[c] < 0 {
			return nil, fmt.Errorf("invalid c32 digit %q", c)
		}
		d := int64(c32Index[c])
		if counting && d == 0 {
			leadingZeros++
		} else {
			counting = false
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(d))
	}
	body := n.Bytes()
	out := make([]byte, leadingZeros+len(body))
	copy(out[leadingZeros:], body)
	return out, nil
}
