package api

import (
	"context"
	"time"

	"clickupai/analysis"
	"clickupai/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsRequestTimeout = 30 * time.Second

// AnalysisEvent is one message on the analysis websocket.
type AnalysisEvent struct {
	State  domain.AnalysisState   `json:"state"`
	Result *domain.AnalysisResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
	Kind   domain.ErrorKind       `json:"kind,omitempty"`
}

// AnalyzeWebsocketHandler reads one AnalysisRequest from the client, then
// streams every state the analysis enters. The final message carries the
// result or the error. Closing the socket cancels the analysis.
func (ctrl *Controller) AnalyzeWebsocketHandler(c *gin.Context) {
	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to upgrade connection")
		return
	}
	defer conn.Close()

	var req domain.AnalysisRequest
	conn.SetReadDeadline(time.Now().Add(wsRequestTimeout))
	if err := conn.ReadJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to read analysis request")
		writeWsClose(conn, websocket.CloseUnsupportedData, "expected an analysis request")
		return
	}
	conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Handle disconnection detection in a separate goroutine
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	writeFailed := false
	send := func(event AnalysisEvent) {
		if writeFailed {
			return
		}
		if err := conn.WriteJSON(event); err != nil {
			log.Debug().Err(err).Msg("Error writing analysis event to websocket")
			writeFailed = true
			cancel()
		}
	}

	observer := func(state domain.AnalysisState) {
		if !state.IsTerminal() {
			send(AnalysisEvent{State: state})
		}
	}
	result, err := ctrl.analyzer.Run(ctx, req, analysis.Observer(observer))
	if err != nil {
		send(AnalysisEvent{State: domain.AnalysisStateError, Error: analysis.UserMessage(err), Kind: domain.KindOf(err)})
	} else {
		send(AnalysisEvent{State: domain.AnalysisStateRendered, Result: &result})
	}
	writeWsClose(conn, websocket.CloseNormalClosure, "")
}

func writeWsClose(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
