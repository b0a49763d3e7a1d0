package cinematic

import (
	"log/slog"

	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/narrative"
)

// LineHooks publishes a message as each entry of a scene starts and ends.
type LineHooks struct {
	pub     EventPublisher
	sceneID string
}

func NewLineHooks(pub EventPublisher, sceneID string) *LineHooks {
	return &LineHooks{pub: pub, sceneID: sceneID}
}

func (h *LineHooks) OnSequenceStart(index int, e narrative.Entry) {
	h.publish(messaging.KindLineStart, index, e)
}

func (h *LineHooks) OnSequenceEnd(index int, e narrative.Entry) {
	h.publish(messaging.KindLineEnd, index, e)
}

func (h *LineHooks) publish(kind string, index int, e narrative.Entry) {
	err := h.pub.Publish(messaging.Event{
		Scene: h.sceneID,
		Kind:  kind,
		Line:  e.ID,
		Index: index,
	})
	if err != nil {
		slog.Warn("publishing line event", "scene", h.sceneID, "line", e.ID, "event", kind, "error", err)
	}
}
