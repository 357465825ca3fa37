// Package client is the outbound edge of the message system: rights
// grants decided locally are pushed to the server through it. The wire
// protocol itself lives on the other side of this boundary.
package client

import (
	"context"
	"log/slog"
	"sync"

	"gridchat/domain"
)

// GrantRecord is one outbound rights grant as handed to the server.
type GrantRecord struct {
	Peer   domain.PeerID
	Rights domain.Rights
}

// MessageSystem implements contract.Transport. It journals every grant
// it accepts so callers (and tests) can audit what actually left the
// process; delivery failures surface as errors to the caller, which
// must not record the grant locally until the send succeeds.
type MessageSystem struct {
	log *slog.Logger

	mu   sync.Mutex
	sent []GrantRecord
}

func NewMessageSystem(log *slog.Logger) *MessageSystem {
	return &MessageSystem{log: log}
}

// SendRightsGrant ships a rights update for peer to the server.
func (m *MessageSystem) SendRightsGrant(ctx context.Context, peer domain.PeerID, rights domain.Rights) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.sent = append(m.sent, GrantRecord{Peer: peer, Rights: rights})
	m.mu.Unlock()
	m.log.Info("Rights grant sent", "peer", peer, "rights", rights)
	return nil
}

// Sent returns a copy of every grant shipped so far, oldest first.
func (m *MessageSystem) Sent() []GrantRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GrantRecord, len(m.sent))
	copy(out, m.sent)
	return out
}
