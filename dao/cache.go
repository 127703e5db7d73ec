package dao

import (
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/signet-labs/roomsig/model"
)

const (
	CacheTimeout time.Duration = 3600 * time.Second
)

// AccountDigest is the cached, UI-facing summary of one multisig
// account, published whenever an account is discovered or rebound.
type AccountDigest struct {
	AccountID        string `json:"account_id"`
	ChainID          string `json:"chain_id"`
	RoomID           string `json:"room_id"`
	CreatorAccountID string `json:"creator_account_id"`
	Name             string `json:"name"`
	Threshold        uint16 `json:"threshold"`
	Signatories      string `json:"signatories"`
	DateCreated      int64  `json:"date_created"`
}

var accountDigestKey = "msig_digest"

var multisigNotify = "multisig_notify"

func BuildAccountDigestKey(chainID string, accountID string) string {
	return accountDigestKey + "_" + chainID + "_" + accountID
}

func BuildMultisigNotifyKey() string {
	return multisigNotify
}

// CacheAccountDigest refreshes the cached digest for an account.
func (d *Dao) CacheAccountDigest(account *model.MultisigAccount) error {
	if d.rds == nil {
		return nil
	}

	digest := AccountDigest{
		AccountID:        account.AccountID,
		ChainID:          account.ChainID,
		RoomID:           account.RoomID,
		CreatorAccountID: account.CreatorAccountID,
		Name:             account.Name,
		Threshold:        account.Threshold,
		Signatories:      account.Signatories,
		DateCreated:      account.DateCreated,
	}
	value, _ := json.Marshal(&digest)

	key := BuildAccountDigestKey(account.ChainID, account.AccountID)
	if err := d.rds.Set(d.ctx, key, string(value), CacheTimeout).Err(); err != nil {
		log.Errorf("CacheAccountDigest failed:%v", err)
		return err
	}
	return nil
}

// WarmAccountCache refreshes every account digest at startup, so
// readers see current room bindings before the first inbound event.
func (d *Dao) WarmAccountCache() error {
	if d.rds == nil {
		return nil
	}

	accounts, err := d.ListAccounts()
	if err != nil {
		return err
	}

	var grp errgroup.Group
	for _, account := range accounts {
		account := account
		grp.Go(func() error {
			return d.CacheAccountDigest(account)
		})
	}
	return grp.Wait()
}

// NotifyNewAccount caches the digest and publishes it on the discovery
// channel so subscribed clients can surface the new multisig.
func (d *Dao) NotifyNewAccount(account *model.MultisigAccount) error {
	if err := d.CacheAccountDigest(account); err != nil {
		return err
	}
	if d.rds == nil {
		return nil
	}

	digest := AccountDigest{
		AccountID:        account.AccountID,
		ChainID:          account.ChainID,
		RoomID:           account.RoomID,
		CreatorAccountID: account.CreatorAccountID,
		Name:             account.Name,
		Threshold:        account.Threshold,
		Signatories:      account.Signatories,
		DateCreated:      account.DateCreated,
	}
	value, _ := json.Marshal(&digest)

	if err := d.rds.Publish(d.ctx, BuildMultisigNotifyKey(), string(value)).Err(); err != nil {
		log.Errorf("NotifyNewAccount publish failed:%v", err)
		return err
	}
	return nil
}
