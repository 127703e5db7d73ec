package transport

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"
	ma "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/signet-labs/roomsig/common"
)

// GatewayStruct mirrors the room gateway's RPC surface; the fields are
// filled in by the jsonrpc client.
type GatewayStruct struct {
	Internal struct {
		JoinRoom   func(ctx context.Context, roomID string) error
		LeaveRoom  func(ctx context.Context, roomID string) error
		SyncEvents func(ctx context.Context) (<-chan common.Payload, error)
	}
}

type rpcGateway struct {
	ctx    context.Context
	api    GatewayStruct
	closer jsonrpc.ClientCloser
	stop   context.CancelFunc
}

// NewRoomGatewayRPC dials a room gateway over websocket JSON-RPC. The
// listen address is a multiaddr; token, when set, is sent as a bearer
// credential.
func NewRoomGatewayRPC(ctx context.Context, listenAddr string, token string) (RoomGateway, error) {
	parsedAddr, err := ma.NewMultiaddr(listenAddr)
	if err != nil {
		return nil, err
	}

	_, addr, err := manet.DialArgs(parsedAddr)
	if err != nil {
		return nil, err
	}

	gw := &rpcGateway{}
	closer, err := jsonrpc.NewMergeClient(ctx, apiURI(addr), "RoomSig",
		[]interface{}{&gw.api.Internal}, tokenHeaders(token))
	if err != nil {
		return nil, err
	}

	gw.ctx = ctx
	gw.closer = closer
	return gw, nil
}

func (gw *rpcGateway) JoinRoom(ctx context.Context, roomID string) error {
	return gw.api.Internal.JoinRoom(ctx, roomID)
}

func (gw *rpcGateway) LeaveRoom(ctx context.Context, roomID string) error {
	return gw.api.Internal.LeaveRoom(ctx, roomID)
}

func (gw *rpcGateway) Start(h Handlers) error {
	ctx, stop := context.WithCancel(gw.ctx)
	gw.stop = stop

	events, err := gw.api.Internal.SyncEvents(ctx)
	if err != nil {
		stop()
		return err
	}

	go func() {
		for {
			select {
			case p, ok := <-events:
				if !ok {
					log.Warn("gateway event stream closed")
					if h.OnLogout != nil {
						h.OnLogout()
					}
					return
				}
				dispatch(h, &p)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

func (gw *rpcGateway) Close() {
	if gw.stop != nil {
		gw.stop()
	}
	gw.closer()
}

func apiURI(addr string) string {
	return "ws://" + addr + "/rpc/v1"
}

func tokenHeaders(token string) http.Header {
	headers := http.Header{}
	if token != "" {
		headers.Add("Authorization", "Bearer "+token)
	}
	return headers
}
