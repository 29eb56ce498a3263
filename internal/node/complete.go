// internal/node/complete.go
package node

import (
	"github.com/MathiasJens3n/modbus-getter/internal/flow"
	"github.com/MathiasJens3n/modbus-getter/internal/status"
)

// onSuccess reconciles one successful completion with its pending
// entry and emits the outbound message. A completion whose id is no
// longer pending (duplicate callback, or store cleared by a
// concurrent disconnect) is dropped without a second emit.
func (n *Node) onSuccess(resp Response, req ReadRequest) {
	original, ok := n.store.TakeOut(req.ID)
	if !ok {
		n.warn("stale completion, dropping", "id", req.ID)
		return
	}

	payload := map[string]any{
		"value":    resp.Value,
		"unitid":   req.UnitID,
		"fc":       req.FC,
		"address":  req.Address,
		"quantity": req.Quantity,
		"id":       req.ID,
	}
	switch req.FC {
	case 1, 2:
		payload["data"] = resp.Bits
	case 3, 4:
		payload["data"] = resp.Registers
	}

	out := flow.Message{Topic: req.Topic, Payload: payload}
	if n.cfg.KeepMsgProps {
		out.Properties = original.Properties
	}

	if err := n.emit.Emit(out); err != nil {
		n.warn("emit failed", "id", req.ID, "err", err)
	}
	n.setActivity(status.Snapshot{Code: status.CodeReadingDone})
}

// onFailure reconciles one failed completion. Found vs. not-found is
// a branch, not an exception: when the store was cleared underneath
// us, diagnostics fall back to the bare echoed request.
func (n *Node) onFailure(cause error, req ReadRequest) {
	original, ok := n.store.TakeOut(req.ID)

	if n.cfg.ShowErrors {
		if ok {
			n.log.Error("read failed", "id", req.ID, "topic", original.Topic, "err", cause)
		} else {
			n.log.Error("read failed, no pending context", "id", req.ID, "topic", req.Topic, "err", cause)
		}
	}

	// Placeholder only for the first completion of a live request:
	// at most one downstream message per trigger.
	if ok && n.cfg.EmptyMsgOnFail {
		var props map[string]any
		if n.cfg.KeepMsgProps {
			props = original.Properties
		}
		n.emitPlaceholder(req.Topic, req.ID, props, cause)
	}

	n.setStatus(status.Snapshot{
		Code:      status.CodeError,
		Detail:    cause.Error(),
		ErrorCode: errorCode(cause),
	})
}

// emitPlaceholder sends the configured "empty" fallback message so a
// caller that prefers a guaranteed downstream message over silence
// still gets one on failure.
func (n *Node) emitPlaceholder(topic, id string, props map[string]any, cause error) {
	out := flow.Message{
		Topic: topic,
		Payload: map[string]any{
			"value": nil,
			"error": cause.Error(),
			"id":    id,
		},
		Properties: props,
	}
	if err := n.emit.Emit(out); err != nil {
		n.warn("placeholder emit failed", "id", id, "err", err)
	}
}
