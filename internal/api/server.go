package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"chatrelay/internal/line"
	"chatrelay/internal/metrics"
	"chatrelay/internal/orchestrator"
)

// Dispatcher sends a reply for the given one-time reply token.
type Dispatcher interface {
	Reply(ctx context.Context, replyToken, text string) error
}

type Server struct {
	orch       *orchestrator.Orchestrator
	dispatcher Dispatcher
	log        zerolog.Logger
}

func NewServer(orch *orchestrator.Orchestrator, dispatcher Dispatcher, logger zerolog.Logger) *Server {
	return &Server{
		orch:       orch,
		dispatcher: dispatcher,
		log:        logger,
	}
}

func (s *Server) Routes() http.Handler {
	// Gin carries middleware and routing so logging/metrics stay out of the
	// handlers themselves.
	engine := gin.New()
	engine.Use(RequestLogger(s.log), gin.Recovery())
	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.POST("/webhook", s.handleWebhook)
	return engine
}

// handleHealthz returns service health.
func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleWebhook runs each text-message event through the pipeline and
// dispatches the reply. A failed event produces no reply at all; the
// endpoint still acknowledges the delivery so the platform does not
// redeliver a payload we cannot handle any better on the second try.
func (s *Server) handleWebhook(c *gin.Context) {
	var payload line.Webhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctx := c.Request.Context()
	for _, evt := range payload.Events {
		if evt.Type != "message" || evt.Message.Type != "text" {
			continue
		}

		in := orchestrator.Inbound{
			UserID:     evt.Source.UserID,
			Text:       evt.Message.Text,
			ReplyToken: evt.ReplyToken,
		}

		replyText, err := s.orch.HandleMessage(ctx, in)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", in.UserID).Msg("handle message failed")
			continue
		}

		if err := s.dispatcher.Reply(ctx, in.ReplyToken, replyText); err != nil {
			metrics.DispatchFailures.Inc()
			s.log.Error().Err(err).Str("user_id", in.UserID).Msg("dispatch reply failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
