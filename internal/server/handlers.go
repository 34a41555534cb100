package server

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	gwerr "github.com/ggonzalez94/agent-gateway/internal/errors"
	"github.com/ggonzalez94/agent-gateway/internal/model"
	"github.com/ggonzalez94/agent-gateway/internal/tools"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{Status: "ok", Message: "Server is running"})
}

// handleListFiles walks the public directory and returns relative paths,
// optionally filtered by a case-insensitive substring on the file name.
func (s *Server) handleListFiles(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))

	files := []string{}
	err := filepath.WalkDir(s.opts.PublicDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(d.Name()), query) {
			return nil
		}
		rel, err := filepath.Rel(s.opts.PublicDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		s.logger.Error("list files failed", zap.Error(err))
		respondError(c, gwerr.Wrap(gwerr.CodeInternal, "list files", err))
		return
	}

	c.JSON(http.StatusOK, model.FilesResponse{Files: files})
}

func (s *Server) handleReadFile(c *gin.Context) {
	name := c.Param("filename")
	if name != filepath.Base(name) || name == "." || name == ".." {
		respondError(c, gwerr.New(gwerr.CodeUsage, "invalid filename"))
		return
	}

	path := filepath.Join(s.opts.PublicDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		respondError(c, gwerr.New(gwerr.CodeNotFound, "File not found"))
		return
	}
	c.File(path)
}

func (s *Server) handleToolCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, model.ToolsResponse{Tools: tools.Catalog()})
}

// handleRunTool dispatches a `{task, ...}` body and renders the result as
// plain JSON, or as a single SSE data frame when the client asks for an
// event stream.
func (s *Server) handleRunTool(c *gin.Context) {
	var req tools.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, gwerr.Wrap(gwerr.CodeUsage, "invalid JSON body", err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.ToolTimeout)
	defer cancel()

	result, err := s.dispatcher.Dispatch(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !wantsEventStream(c) {
		c.JSON(http.StatusOK, result)
		return
	}

	// Degenerate single-element stream: one data frame, then close.
	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	if err := sse.Encode(c.Writer, sse.Event{Data: result}); err != nil {
		s.logger.Error("write sse frame failed", zap.Error(err))
		return
	}
	c.Writer.Flush()
}

func wantsEventStream(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		return true
	}
	stream := strings.ToLower(strings.TrimSpace(c.Query("stream")))
	return stream == "1" || stream == "true"
}
