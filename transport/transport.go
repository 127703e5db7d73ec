package transport

import (
	"context"

	logging "github.com/ipfs/go-log/v2"

	"github.com/signet-labs/roomsig/common"
)

var log = logging.Logger("transport")

// Handlers are the callbacks a consumer registers for room activity.
// OnSyncEnd fires once historical backfill is drained; OnLogout fires
// when the gateway session ends.
type Handlers struct {
	OnInvite        func(p *common.Payload)
	OnMultisigEvent func(p *common.Payload)
	OnSyncEnd       func()
	OnLogout        func()
}

// RoomGateway is the messaging-room surface the engine depends on. The
// wire protocol behind it is owned by the gateway implementation.
type RoomGateway interface {
	JoinRoom(ctx context.Context, roomID string) error
	LeaveRoom(ctx context.Context, roomID string) error

	// Start begins delivering room events to the handlers. Delivery
	// stops when the stream ends or Close is called.
	Start(h Handlers) error
	Close()
}

func dispatch(h Handlers, p *common.Payload) {
	switch p.Type {
	case common.PayloadSyncEnd:
		if h.OnSyncEnd != nil {
			h.OnSyncEnd()
		}
	case common.PayloadLogout:
		if h.OnLogout != nil {
			h.OnLogout()
		}
	case common.PayloadInvite:
		if h.OnInvite != nil {
			h.OnInvite(p)
		}
	default:
		if h.OnMultisigEvent != nil {
			h.OnMultisigEvent(p)
		}
	}
}
