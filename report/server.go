package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Server exposes the JSON results saved by the experiments
type Server struct {
	Port     int
	savePath string
	ctx      context.Context
	server   *http.Server
	handler  http.Handler
}

func NewServer(ctx context.Context, savePath string, port int) *Server {
	s := &Server{
		Port:     port,
		savePath: savePath,
		ctx:      ctx,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/results", s.handleList)
	r.GET("/results/:name", s.handleResult)
	s.handler = r
	s.server = &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", port),
		Handler: r,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleList(c *gin.Context) {
	entries, err := os.ReadDir(s.savePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read results"})
		return
	}
	names := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	c.JSON(http.StatusOK, gin.H{"results": names})
}

func (s *Server) handleResult(c *gin.Context) {
	name := c.Param("name")
	if name == "" || strings.ContainsAny(name, `/\`) || name != path.Clean(name) || name == ".." {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result name"})
		return
	}
	data, err := os.ReadFile(filepath.Join(s.savePath, name+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such result: " + name})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read result"})
		return
	}
	if !json.Valid(data) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "result is not valid json"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Run serves until the context is cancelled or the listener fails
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
