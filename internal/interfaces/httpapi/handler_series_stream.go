package httpapi

import (
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/valyala/bytebufferpool"
)

const (
	streamMessageSnapshot = "snapshot"
	streamMessagePatch    = "series.patch"
	streamMessageDone     = "hydration.done"
)

type streamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type hydrationDoneDTO struct {
	Patched int `json:"patched"`
}

// StreamSeries upgrades to a websocket, sends the provisional listing and then
// one message per hydrated row. Closing the socket cancels the hydration run;
// entries already cached stay reusable.
func (h *Handler) StreamSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamSeries")
	defer span.End()

	rows, run, err := h.seriesService.StartSeriesSession(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "start series session failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	defer run.Cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.WarnContext(ctx, "websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	// The client never sends anything meaningful; a read error means it left.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				run.Cancel()
				return
			}
		}
	}()

	if err := h.writeStreamMessage(conn, streamMessage{Type: streamMessageSnapshot, Data: seriesListToDTO(rows)}); err != nil {
		h.logger.WarnContext(ctx, "write series snapshot failed", "error", err)
		return
	}

	patched := 0
	for patch := range run.Patches() {
		if err := h.writeStreamMessage(conn, streamMessage{Type: streamMessagePatch, Data: seriesPatchToDTO(patch)}); err != nil {
			h.logger.WarnContext(ctx, "write series patch failed", "stage_id", patch.PrimaryStageID, "error", err)
			run.Cancel()
			return
		}
		patched++
	}

	if err := h.writeStreamMessage(conn, streamMessage{Type: streamMessageDone, Data: hydrationDoneDTO{Patched: patched}}); err != nil {
		return
	}
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, streamMessageDone),
		time.Now().Add(h.writeTimeout),
	)
}

func (h *Handler) writeStreamMessage(conn *websocket.Conn, msg streamMessage) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(msg); err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, buf.Bytes())
}
