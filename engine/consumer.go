package engine

import (
	"context"

	"go.uber.org/atomic"

	"github.com/signet-labs/roomsig/common"
	"github.com/signet-labs/roomsig/dao"
	"github.com/signet-labs/roomsig/transport"
)

// Consumer drains room payloads from the gateway, classifies them, and
// enqueues reconciliations on the keyed queue. The run loop itself
// never touches the database, so consumption continues while earlier
// reconciliations are still persisting.
type Consumer struct {
	ctx        context.Context
	dao        *dao.Dao
	reconciler *Reconciler
	invites    *InviteHandler
	queue      *KeyedQueue
	gw         transport.RoomGateway

	inviteCh  chan *common.Payload
	eventCh   chan *common.Payload
	syncEndCh chan struct{}
	logoutCh  chan struct{}

	backfill *atomic.Bool
}

func NewConsumer(ctx context.Context, d *dao.Dao, gw transport.RoomGateway) *Consumer {
	return &Consumer{
		ctx:        ctx,
		dao:        d,
		reconciler: NewReconciler(d),
		invites:    NewInviteHandler(ctx, d, gw),
		queue:      NewKeyedQueue(),
		gw:         gw,
		inviteCh:   make(chan *common.Payload, 64),
		eventCh:    make(chan *common.Payload, 64),
		syncEndCh:  make(chan struct{}, 1),
		logoutCh:   make(chan struct{}, 1),
		backfill:   atomic.NewBool(true),
	}
}

func (c *Consumer) Start() error {
	h := transport.Handlers{
		OnInvite: func(p *common.Payload) {
			select {
			case c.inviteCh <- p:
			case <-c.ctx.Done():
			}
		},
		OnMultisigEvent: func(p *common.Payload) {
			select {
			case c.eventCh <- p:
			case <-c.ctx.Done():
			}
		},
		OnSyncEnd: func() {
			select {
			case c.syncEndCh <- struct{}{}:
			default:
			}
		},
		OnLogout: func() {
			select {
			case c.logoutCh <- struct{}{}:
			default:
			}
		},
	}

	if err := c.gw.Start(h); err != nil {
		return err
	}

	go c.run()
	return nil
}

// Stop waits for in-flight reconciliations to finish persisting.
func (c *Consumer) Stop() {
	c.queue.Wait()
}

func (c *Consumer) run() {
	for {
		select {
		case p := <-c.inviteCh:
			c.handleInvite(p)
		case p := <-c.eventCh:
			c.handleEvent(p)
		case <-c.syncEndCh:
			c.backfill.Store(false)
			log.Info("room backfill complete")
		case <-c.logoutCh:
			log.Info("gateway logout, consumer stopping")
			return
		case <-c.ctx.Done():
			return
		}
	}
}

// handleInvite serializes account genesis per chain: two invites for
// the same derived account must not race their create paths.
func (c *Consumer) handleInvite(p *common.Payload) {
	notify := !c.backfill.Load()

	c.queue.Enqueue("invites_"+p.Content.ChainID, func() {
		if err := c.invites.HandleInvite(p, notify); err != nil {
			log.Warnw("invite handling failed", "room", p.RoomID, "err", err)
		}
	})
}

func (c *Consumer) handleEvent(p *common.Payload) {
	intent := Classify(p)
	if intent == common.IntentNoop {
		log.Debugw("ignoring unsupported payload", "type", p.Type, "event", p.EventID)
		return
	}

	key := p.TxKey()

	c.queue.Enqueue(key.LaneKey(), func() {
		if err := c.process(intent, p); err != nil {
			log.Warnw("reconciliation failed",
				"key", key.LaneKey(), "intent", intent.String(), "err", err)
		}
	})
}

// process runs on a queue lane. The account snapshot is loaded fresh
// per invocation and handed down explicitly.
func (c *Consumer) process(intent common.Intent, p *common.Payload) error {
	account, err := c.dao.GetAccount(p.Content.AccountID, p.Content.ChainID)
	if err != nil {
		return err
	}

	if err := ValidatePayload(p, account); err != nil {
		// dropped by design; redelivery or a later invite reconciles
		log.Debugw("payload rejected", "event", p.EventID, "err", err)
		return nil
	}

	return c.reconciler.Reconcile(account, intent, p)
}
