package crypto

import (
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/xerrors"

	"github.com/signet-labs/roomsig/common"
)

// derivation domain tag, shared by every client implementation
var multisigTag = []byte("modlpy/utilisuba")

// Derive computes the canonical multisig account identifier for a
// signatory set. The signatory order on the wire does not matter: the
// set is sorted before hashing, so every client derives the same
// address from the same membership.
func Derive(signatories []string, threshold uint16, cryptoType common.CryptoType) (string, error) {
	if len(signatories) == 0 {
		return "", xerrors.Errorf("empty signatory set: %w", common.ErrInvalidDerivation)
	}
	if threshold == 0 || int(threshold) > len(signatories) {
		return "", xerrors.Errorf("threshold %d out of range for %d signatories: %w",
			threshold, len(signatories), common.ErrInvalidDerivation)
	}

	sorted := make([]string, len(signatories))
	copy(sorted, signatories)
	sort.Strings(sorted)

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}

	h.Write(multisigTag)
	h.Write([]byte(cryptoType))
	for _, s := range sorted {
		raw, err := decodeAccountID(s)
		if err != nil {
			return "", err
		}
		h.Write(raw)
	}

	var tb [2]byte
	binary.LittleEndian.PutUint16(tb[:], threshold)
	h.Write(tb[:])

	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}

// CallHash hashes opaque call data with the same function the chain
// uses to identify pending multisig calls.
func CallHash(callData []byte) string {
	sum := blake2b.Sum256(callData)
	return "0x" + hex.EncodeToString(sum[:])
}

func decodeAccountID(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, xerrors.Errorf("signatory %q is not a hex account id: %w", s, common.ErrInvalidDerivation)
	}
	if len(raw) == 0 {
		return nil, xerrors.Errorf("signatory %q is empty: %w", s, common.ErrInvalidDerivation)
	}
	return raw, nil
}
