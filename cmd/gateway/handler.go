package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/google/uuid"

	"github.com/spetersoncode/a2gate/agui"
	"github.com/spetersoncode/a2gate/bridge"
	"github.com/spetersoncode/a2gate/event"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Streamer starts one engine run. *engine.Engine implements it.
type Streamer interface {
	StartStream(ctx context.Context, message, conversationID string) event.Stream
}

// chatRequest is the body of both stream endpoints. The AG-UI endpoint
// also accepts an AG-UI run request and then uses its last user message.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`

	agui.RunAgentInput
}

// Gateway serves the streaming endpoints.
type Gateway struct {
	engine Streamer
	logger *slog.Logger
}

// NewGateway creates a gateway over engine.
func NewGateway(engine Streamer, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{engine: engine, logger: logger}
}

// decode parses the request body. It writes the error response and returns
// false when the request is unusable.
func (g *Gateway) decode(w http.ResponseWriter, r *http.Request) (*chatRequest, bool) {
	if r.Method != http.MethodPost {
		g.logger.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.logger.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

// ChatStream handles POST /api/chat/stream.
func (g *Gateway) ChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := g.decode(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	log := g.logger.With(
		"request_id", uuid.NewString(),
		"conversation_id", req.ConversationID,
	)

	sse, err := newSSEWriter(w)
	if err != nil {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	start := time.Now()
	log.Info("request started", "endpoint", "chat")

	stats, err := bridge.Run(ctx, g.engine.StartStream(ctx, req.Message, req.ConversationID), sse,
		bridge.WithLogger(log))
	g.logDone(log, start, stats, err)
}

// AGUIStream handles POST /api/agui/stream.
func (g *Gateway) AGUIStream(w http.ResponseWriter, r *http.Request) {
	req, ok := g.decode(w, r)
	if !ok {
		return
	}

	message := req.Message
	if strings.TrimSpace(message) == "" {
		prompt, err := req.Prompt()
		if err != nil {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}
		message = prompt
	}
	threadID := req.ConversationID
	if threadID == "" {
		threadID = req.ThreadID
	}

	mapper := agui.NewMapper(threadID, req.RunID)
	log := g.logger.With(
		"run_id", mapper.RunID(),
		"conversation_id", mapper.ThreadID(),
	)

	sse, err := newSSEWriter(w)
	if err != nil {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	start := time.Now()
	log.Info("request started", "endpoint", "agui")

	if err := sse.writeAGUI(ctx, mapper.RunStarted()); err != nil {
		log.Info("client disconnected", "error", err)
		return
	}

	sink := mapper.Sink(func(ctx context.Context, ev aguievents.Event) error {
		return sse.writeAGUI(ctx, ev)
	})
	stats, err := bridge.Run(ctx, g.engine.StartStream(ctx, message, threadID), sink,
		bridge.WithLogger(log))
	stats.EventsSent = sse.count
	g.logDone(log, start, stats, err)
}

func (g *Gateway) logDone(log *slog.Logger, start time.Time, stats bridge.Stats, err error) {
	duration := time.Since(start)
	var upstream *bridge.UpstreamError
	switch {
	case errors.Is(err, bridge.ErrDisconnected):
		log.Info("client disconnected",
			"duration_ms", duration.Milliseconds(),
			"events_sent", stats.EventsSent,
		)
	case errors.As(err, &upstream):
		log.Error("request failed",
			"duration_ms", duration.Milliseconds(),
			"events_sent", stats.EventsSent,
			"error", upstream.Err,
		)
	default:
		log.Info("request completed",
			"duration_ms", duration.Milliseconds(),
			"events_sent", stats.EventsSent,
			"upstream_events", stats.UpstreamEvents,
			"a2ui_messages", stats.A2UIMessages,
		)
	}
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	AgentStatus string `json:"agent_status"`
}

// Health handles GET /api/health.
func (g *Gateway) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:      "healthy",
		Version:     Version,
		AgentStatus: "connected",
	})
}
