// Package http serves a read-only JSON view of a running streamer.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"

	"github.com/chzchzchz/rtludp/sdrudp"
)

// StatusSource is implemented by the streaming server.
type StatusSource interface {
	Status() sdrudp.Status
	Stats() sdrudp.Stats
}

func init() { gin.SetMode(gin.ReleaseMode) }

// NewHandler routes GET /api/status and GET /api/stats. Tuning is only ever
// changed over the control socket.
func NewHandler(src StatusSource) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), logRequests)
	api := r.Group("/api")
	api.GET("/status", func(c *gin.Context) { c.JSON(http.StatusOK, src.Status()) })
	api.GET("/stats", func(c *gin.Context) { c.JSON(http.StatusOK, src.Stats()) })
	return r
}

func logRequests(c *gin.Context) {
	c.Next()
	glog.V(2).Infof("[%s] %s %s %d", c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Writer.Status())
}

// ServeHttp listens on addr until ctx is cancelled.
func ServeHttp(ctx context.Context, src StatusSource, addr string) error {
	srv := &http.Server{Addr: addr, Handler: NewHandler(src)}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
