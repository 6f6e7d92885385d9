package http

import (
	"context"
	"encoding/json"
	"net/http"

	"culture-millionaire/internal/app"
	"culture-millionaire/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service  *app.GameService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type lifelinePayload struct {
	Kind string `json:"kind"`
}

type answerPayload struct {
	OptionID string `json:"optionId"`
}

type languagePayload struct {
	Code string `json:"code"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: domain.ErrorCode(err), Message: err.Error()}}
}

// ServeWS upgrades HTTP requests to websockets and runs one game per player over the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}
	var lang domain.Language
	if raw := r.URL.Query().Get("lang"); raw != "" {
		parsed, err := domain.ParseLanguage(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lang = parsed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := h.logger.With(zap.String("player_id", playerID))

	if lang != "" {
		if err := h.service.SetLanguage(ctx, playerID, lang); err != nil {
			log.Warn("persist language failed", zap.Error(err))
		}
	}
	if _, err := h.service.Start(ctx, playerID); err != nil {
		log.Error("start game failed", zap.Error(err))
		_ = conn.WriteJSON(errorMessage(err))
		return
	}

	updates, cancel, err := h.service.Subscribe(ctx, playerID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer cancel()
	defer h.service.Leave(context.Background(), playerID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// the writer goroutine is the only one touching conn for writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := h.stateMessage(ctx, playerID)
				if !ok {
					return
				}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		for _, msg := range h.dispatch(ctx, playerID, inbound) {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch runs one command. Engine commands answer through the update
// stream; only rejections and language changes reply directly.
func (h *WSHandler) dispatch(ctx context.Context, playerID string, inbound inboundMessage) []outboundMessage[any] {
	var err error
	switch inbound.Type {
	case "newGame":
		err = h.service.NewGame(ctx, playerID)
	case "lifeline":
		var payload lifelinePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "invalid lifeline payload"}}}
		}
		kind, perr := domain.ParseLifelineKind(payload.Kind)
		if perr != nil {
			return []outboundMessage[any]{errorMessage(perr)}
		}
		err = h.service.UseLifeline(ctx, playerID, kind)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "invalid answer payload"}}}
		}
		err = h.service.SubmitAnswer(ctx, playerID, payload.OptionID)
	case "cashOut":
		err = h.service.CashOut(ctx, playerID)
	case "dismiss":
		err = h.service.DismissModal(ctx, playerID)
	case "language":
		var payload languagePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "invalid language payload"}}}
		}
		lang, perr := domain.ParseLanguage(payload.Code)
		if perr != nil {
			return []outboundMessage[any]{errorMessage(perr)}
		}
		if err := h.service.SetLanguage(ctx, playerID, lang); err != nil {
			return []outboundMessage[any]{errorMessage(err)}
		}
		return h.stateReply(ctx, playerID)
	case "toggleLanguage":
		if _, err := h.service.ToggleLanguage(ctx, playerID); err != nil {
			return []outboundMessage[any]{errorMessage(err)}
		}
		return h.stateReply(ctx, playerID)
	default:
		return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Code: "bad_request", Message: "unsupported message type"}}}
	}
	if err != nil {
		return []outboundMessage[any]{errorMessage(err)}
	}
	return nil
}

func (h *WSHandler) stateReply(ctx context.Context, playerID string) []outboundMessage[any] {
	msg, ok := h.stateMessage(ctx, playerID)
	if !ok {
		return nil
	}
	return []outboundMessage[any]{msg}
}

func (h *WSHandler) stateMessage(ctx context.Context, playerID string) (outboundMessage[any], bool) {
	view, err := h.service.Snapshot(ctx, playerID)
	if err != nil {
		return outboundMessage[any]{}, false
	}
	return outboundMessage[any]{Type: "state", Payload: view}, true
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}
