package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	gwerr "github.com/ggonzalez94/agent-gateway/internal/errors"
	"github.com/ggonzalez94/agent-gateway/internal/model"
	"github.com/ggonzalez94/agent-gateway/internal/tools"
)

// Options carries the transport-level knobs the server needs.
type Options struct {
	Listen      string
	PublicDir   string
	ToolTimeout time.Duration
}

// Server wires the REST/SSE/WebSocket surface over the tool dispatcher.
// Handlers share no mutable state; every request is independent.
type Server struct {
	opts       Options
	engine     *gin.Engine
	logger     *zap.Logger
	dispatcher *tools.Dispatcher
	upgrader   websocket.Upgrader
}

func New(opts Options, dispatcher *tools.Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ToolTimeout <= 0 {
		opts.ToolTimeout = 5 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		opts:       opts,
		engine:     engine,
		logger:     logger,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	engine.Use(RequestID())
	engine.Use(RequestLogger(logger))
	engine.Use(CORS())
	engine.Use(Metrics())
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("handler panicked", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
			Error: model.ErrorBody{Type: "internal", Message: "internal server error"},
		})
	}))

	engine.GET("/", s.handleHealth)
	engine.GET("/files", s.handleListFiles)
	engine.GET("/files/:filename", s.handleReadFile)
	engine.GET("/tools", s.handleToolCatalog)
	engine.POST("/tools", s.handleRunTool)
	engine.GET("/ws", s.handleWebSocket)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.PublicDir != "" {
		engine.Static("/public", opts.PublicDir)
	}

	return s
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("gateway listening", zap.String("addr", s.opts.Listen))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(gwerr.HTTPStatus(err), model.ErrorResponse{
		Error: model.ErrorBody{Type: gwerr.Type(err), Message: err.Error()},
	})
}
