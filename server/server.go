package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeu5/treasure-qlearn/types"
)

// Server exposes a session over http: read-only queries plus the start
// and tick operations for clients that drive the clock themselves
type Server struct {
	Addr    string
	ctx     context.Context
	server  *http.Server
	session *types.Session
	logger  log.Logger

	// drive starts the session drivers on POST /start
	drive bool
}

func NewServer(ctx context.Context, addr string, session *types.Session, drive bool, logger log.Logger) *Server {
	s := &Server{
		Addr:    addr,
		ctx:     ctx,
		session: session,
		logger:  logger,
		drive:   drive,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/config", s.handleConfig)
	r.GET("/state", s.handleState)
	r.GET("/qtable", s.handleQTable)
	r.GET("/episode", s.handleEpisode)
	r.GET("/grid", s.handleGrid)
	r.GET("/visits", s.handleVisits)
	r.POST("/start", s.handleStart)
	r.POST("/stop", s.handleStop)
	r.POST("/tick/episode", s.handleTickEpisode)
	r.POST("/tick/replay", s.handleTickReplay)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Config())
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Summary())
}

func (s *Server) handleQTable(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.QTable())
}

func (s *Server) handleEpisode(c *gin.Context) {
	e := s.session.LastEpisode()
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no episode completed yet"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) handleGrid(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Board())
}

func (s *Server) handleVisits(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Visits())
}

func (s *Server) handleStart(c *gin.Context) {
	if s.drive {
		s.session.Run(s.ctx)
	} else {
		s.session.Start()
	}
	c.JSON(http.StatusOK, s.session.Summary())
}

func (s *Server) handleStop(c *gin.Context) {
	s.session.StopDrivers()
	c.JSON(http.StatusOK, s.session.Summary())
}

func (s *Server) handleTickEpisode(c *gin.Context) {
	e, ok := s.session.TickEpisode()
	c.JSON(http.StatusOK, gin.H{"ran": ok, "episode": e, "status": s.session.Status()})
}

func (s *Server) handleTickReplay(c *gin.Context) {
	pos, ok := s.session.TickReplay()
	c.JSON(http.StatusOK, gin.H{"moved": ok, "agent": pos})
}

func (s *Server) Start() {
	go func() {
		level.Info(s.logger).Log("msg", "listening", "addr", s.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(s.logger).Log("msg", "server stopped", "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.session.StopDrivers()
		s.server.Shutdown(ctx)
	}()
}
