package engine

import (
	"github.com/signet-labs/roomsig/common"
)

// Classify maps a payload's type tag plus content shape to an intent.
// An approve carrying a call outcome is the quorum-completing final
// approval. Unknown types classify to noop so transport evolution never
// errors the consumer.
func Classify(p *common.Payload) common.Intent {
	switch p.Type {
	case common.PayloadInvite:
		return common.IntentInvite
	case common.PayloadUpdate:
		return common.IntentUpdate
	case common.PayloadCancel:
		return common.IntentCancel
	case common.PayloadApprove:
		if p.Content.CallOutcome != "" {
			return common.IntentFinalApprove
		}
		return common.IntentApprove
	default:
		return common.IntentNoop
	}
}
