package engine

import (
	"context"
	"time"

	"github.com/signet-labs/roomsig/common"
	"github.com/signet-labs/roomsig/crypto"
	"github.com/signet-labs/roomsig/dao"
	"github.com/signet-labs/roomsig/model"
	"github.com/signet-labs/roomsig/transport"
)

// InviteHandler establishes multisig accounts from invite payloads and
// resolves conflicting room bindings. Transport failures are logged and
// swallowed so one bad join never stalls the consumer.
type InviteHandler struct {
	ctx context.Context
	dao *dao.Dao
	gw  transport.RoomGateway
}

func NewInviteHandler(ctx context.Context, d *dao.Dao, gw transport.RoomGateway) *InviteHandler {
	return &InviteHandler{
		ctx: ctx,
		dao: d,
		gw:  gw,
	}
}

// HandleInvite processes one invite. notify is false during backfill so
// historical invites do not re-announce as new discoveries.
func (h *InviteHandler) HandleInvite(p *common.Payload, notify bool) error {
	derived, err := crypto.Derive(p.Content.Signatories, p.Content.Threshold, p.Content.CryptoType)
	if err != nil {
		log.Warnw("invite rejected, bad derivation", "room", p.RoomID, "err", err)
		return nil
	}
	if p.Content.AccountID != "" && p.Content.AccountID != derived {
		log.Warnw("invite rejected, address mismatch",
			"claimed", p.Content.AccountID, "derived", derived, "room", p.RoomID)
		return nil
	}

	account, err := h.dao.GetAccount(derived, p.Content.ChainID)
	if err != nil {
		return err
	}

	if account == nil {
		return h.createAccount(derived, p, notify)
	}

	if account.RoomID == p.RoomID {
		log.Debugw("duplicate invite", "account", derived, "room", p.RoomID)
		return nil
	}

	return h.resolveRoomConflict(account, p)
}

func (h *InviteHandler) createAccount(derived string, p *common.Payload, notify bool) error {
	account := &model.MultisigAccount{
		AccountID:        derived,
		ChainID:          p.Content.ChainID,
		RoomID:           p.RoomID,
		CreatorAccountID: p.Content.SenderAccountID,
		Name:             p.RoomName,
		Threshold:        p.Content.Threshold,
		CryptoType:       string(p.Content.CryptoType),
		DateCreated:      time.Now().Unix(),
	}
	account.SetSignatoryList(p.Content.Signatories)

	if err := h.dao.CreateAccount(account); err != nil {
		return err
	}

	if err := h.gw.JoinRoom(h.ctx, p.RoomID); err != nil {
		log.Errorf("join room %v failed:%v", p.RoomID, err)
		return nil
	}

	log.Infow("multisig discovered", "account", derived, "chain", p.Content.ChainID, "room", p.RoomID)

	if notify {
		if err := h.dao.NotifyNewAccount(account); err != nil {
			log.Warnf("notify new account failed:%v", err)
		}
	} else {
		if err := h.dao.CacheAccountDigest(account); err != nil {
			log.Warnf("cache account digest failed:%v", err)
		}
	}

	return nil
}

// resolveRoomConflict applies the room-migration tie-break: the greater
// of the new inviter's id and the stored creator's id keeps its room.
// Every signatory runs the same comparison on the same two invites, so
// all converge on one room without coordination.
func (h *InviteHandler) resolveRoomConflict(account *model.MultisigAccount, p *common.Payload) error {
	if p.Content.SenderAccountID > account.CreatorAccountID {
		oldRoom := account.RoomID

		if err := h.dao.MigrateAccountRoom(account, p.RoomID, p.Content.SenderAccountID); err != nil {
			return err
		}

		if err := h.gw.LeaveRoom(h.ctx, oldRoom); err != nil {
			log.Warnf("leave room %v failed:%v", oldRoom, err)
		}
		if err := h.gw.JoinRoom(h.ctx, p.RoomID); err != nil {
			log.Errorf("join room %v failed:%v", p.RoomID, err)
		}

		if err := h.dao.CacheAccountDigest(account); err != nil {
			log.Warnf("cache account digest failed:%v", err)
		}

		log.Infow("room migrated", "account", account.AccountID, "from", oldRoom, "to", p.RoomID)
		return nil
	}

	// incoming invite loses; stay out of its room
	if err := h.gw.LeaveRoom(h.ctx, p.RoomID); err != nil {
		log.Warnf("leave room %v failed:%v", p.RoomID, err)
	}
	log.Infow("invite lost room tie-break", "account", account.AccountID, "room", p.RoomID)

	return nil
}
