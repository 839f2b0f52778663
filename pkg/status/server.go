// Copyright 2026 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pingcap/errors"
	"github.com/pingcap/kernel-bench/pkg/logger"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// LogLevelReq is the body of POST /api/v1/log.
type LogLevelReq struct {
	Level string `json:"log_level"`
}

// HTTPError is returned for every failed request.
type HTTPError struct {
	Message string `json:"error_msg"`
	Code    string `json:"error_code"`
}

// EmptyResponse is returned by requests without a payload.
type EmptyResponse struct{}

// Server exposes benchmark progress, metrics and log level control over HTTP.
type Server struct {
	addr    string
	tracker *Tracker
	engine  *gin.Engine
}

// NewServer creates a status server listening on addr once Run is called.
func NewServer(addr string, tracker *Tracker, registry *prometheus.Registry) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		addr:    addr,
		tracker: tracker,
		engine:  engine,
	}
	engine.GET("/status", s.handleStatus)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	engine.POST("/api/v1/log", s.handleSetLogLevel)
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleSetLogLevel(c *gin.Context) {
	req := &LogLevelReq{Level: "info"}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, &HTTPError{
			Message: "invalid log level: " + err.Error(),
			Code:    "ErrAPIInvalidParam",
		})
		return
	}
	if err := logger.SetLogLevel(req.Level); err != nil {
		c.JSON(http.StatusBadRequest, &HTTPError{
			Message: "fail to change log level: " + req.Level,
			Code:    "ErrAPIInvalidParam",
		})
		return
	}
	log.Warn("log level changed", zap.String("level", req.Level))
	c.JSON(http.StatusOK, &EmptyResponse{})
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Annotatef(err, "status server listen on %s failed", s.addr)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: shutdownTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info("status server started", zap.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Trace(err)
		}
		<-errCh
		log.Info("status server stopped", zap.String("addr", ln.Addr().String()))
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Trace(err)
	}
}
