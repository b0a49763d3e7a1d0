package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner plays sessions over viewer connections.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
	Play(ctx context.Context, conn io.ReadWriter, sceneID string) error
}

type ConnectionManager struct {
	sr SessionRunner
}

func NewConnectionManager(sr SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sr: sr,
	}
}

// AcceptConnection lets the viewer pick a scene and plays it.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.sr.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "viewer session", "error", err)
	}
}

// AcceptScene plays sceneID without prompting.
func (m *ConnectionManager) AcceptScene(ctx context.Context, conn io.ReadWriter, sceneID string) {
	if err := m.sr.Play(ctx, conn, sceneID); err != nil {
		slog.WarnContext(ctx, "viewer session", "scene", sceneID, "error", err)
		_, _ = io.WriteString(conn, err.Error()+"\n")
	}
}
