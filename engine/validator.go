package engine

import (
	"golang.org/x/xerrors"

	"github.com/signet-labs/roomsig/common"
	"github.com/signet-labs/roomsig/crypto"
	"github.com/signet-labs/roomsig/model"
)

// ValidatePayload authenticates a non-invite payload against the
// stored account. Checks run in order and stop at the first failure; a
// payload failing here must never reach the stores.
func ValidatePayload(p *common.Payload, known *model.MultisigAccount) error {
	if known == nil {
		return xerrors.Errorf("account %s on chain %s: %w",
			p.Content.AccountID, p.Content.ChainID, common.ErrUnknownAccount)
	}

	signatories, err := known.SignatoryList()
	if err != nil {
		return err
	}

	sender := p.Content.SenderAccountID
	isSignatory := false
	for _, s := range signatories {
		if s == sender {
			isSignatory = true
			break
		}
	}
	if !isSignatory {
		return xerrors.Errorf("sender %s: %w", sender, common.ErrSenderNotSignatory)
	}

	derived, err := crypto.Derive(p.Content.Signatories, p.Content.Threshold, p.Content.CryptoType)
	if err != nil {
		return err
	}
	if derived != known.AccountID {
		return xerrors.Errorf("derived %s stored %s: %w", derived, known.AccountID, common.ErrAddressMismatch)
	}

	if len(p.Content.CallData) > 0 {
		if crypto.CallHash(p.Content.CallData) != p.Content.CallHash {
			return xerrors.Errorf("call hash %s: %w", p.Content.CallHash, common.ErrCallDataHashMismatch)
		}
	}

	return nil
}
