package launchcore

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Identity is a signing key with its derived address.
type Identity struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

func NewIdentity(key *ecdsa.PrivateKey) Identity {
	return Identity{Key: key, Address: gethcrypto.PubkeyToAddress(key.PublicKey)}
}

// IdentityFromHex parses a hex ECDSA private key (with / without 0x).
func IdentityFromHex(s string) (Identity, error) {
	h := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if len(h) == 0 {
		return Identity{}, errors.New("empty private key")
	}
	prv, err := gethcrypto.HexToECDSA(h)
	if err != nil {
		return Identity{}, err
	}
	return NewIdentity(prv), nil
}

// ParseBundle parses bundle keys keeping their order. The order decides
// dispersal order, so duplicates are rejected rather than collapsed.
func ParseBundle(keys []string) ([]Identity, error) {
	out := make([]Identity, 0, len(keys))
	seen := make(map[common.Address]int, len(keys))
	for i, k := range keys {
		id, err := IdentityFromHex(k)
		if err != nil {
			return nil, fmt.Errorf("bundle key #%d: %w", i, err)
		}
		if j, dup := seen[id.Address]; dup {
			return nil, fmt.Errorf("bundle key #%d duplicates #%d (%s)", i, j, id.Address.Hex())
		}
		seen[id.Address] = i
		out = append(out, id)
	}
	return out, nil
}
