// Package api is the optional HTTP front end: a thin gin layer over the
// same construct/ALNS/report pipeline cmd/router drives from the
// command line. It never changes the CLI's behaviour — cmd/router and
// cmd/routerapi are independent binaries sharing internal packages.
//
// Middleware order (gzip -> logging -> cors -> rate limit -> auth)
// mirrors cmd/server/main.go's chain, trimmed of the security-headers
// and API-versioning middleware that have no counterpart in this much
// smaller surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/shuttlefleet/routeopt/internal/alns"
	"github.com/shuttlefleet/routeopt/internal/config"
	"github.com/shuttlefleet/routeopt/internal/construct"
	"github.com/shuttlefleet/routeopt/internal/geo"
	"github.com/shuttlefleet/routeopt/internal/httpauth"
	"github.com/shuttlefleet/routeopt/internal/ingest"
	"github.com/shuttlefleet/routeopt/internal/jobqueue"
	"github.com/shuttlefleet/routeopt/internal/logging"
	"github.com/shuttlefleet/routeopt/internal/progress"
	"github.com/shuttlefleet/routeopt/internal/ratelimit"
	"github.com/shuttlefleet/routeopt/internal/report"
)

// Server wires the gin engine and its dependencies.
type Server struct {
	engine    *gin.Engine
	solverCfg *config.Solver
	queue     *jobqueue.Queue
	issuer    *httpauth.Issuer
	logger    *logging.Logger

	hubsMu sync.Mutex
	hubs   map[string]*progress.Hub
}

// Deps are the collaborators Server needs beyond process-wide config.
type Deps struct {
	SolverCfg         *config.Solver
	Queue             *jobqueue.Queue
	Issuer            *httpauth.Issuer
	Logger            *logging.Logger
	RequestsPerMinute int
}

// NewServer builds the gin engine with every route and middleware
// wired.
func NewServer(deps Deps) *Server {
	s := &Server{
		engine:    gin.New(),
		solverCfg: deps.SolverCfg,
		queue:     deps.Queue,
		issuer:    deps.Issuer,
		logger:    deps.Logger,
		hubs:      make(map[string]*progress.Hub),
	}

	s.engine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))
	s.engine.Use(ratelimit.Middleware(deps.RequestsPerMinute))

	s.engine.GET("/healthz", s.handleHealthz)

	v1 := s.engine.Group("/api/v1")
	v1.POST("/auth/token", s.handleIssueToken)

	authed := v1.Group("/", httpauth.RequireBearer(s.issuer))
	authed.POST("/solve", s.handleSolveSync)
	authed.POST("/jobs", s.handleSubmitJob)
	authed.GET("/jobs/:id", s.handleGetJob)
	authed.GET("/jobs/:id/progress", s.handleJobProgress)

	return s
}

// Engine exposes the underlying gin engine (e.g. for httptest servers).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// SolveFunc adapts solveDocument to the jobqueue.SolveFunc signature so
// cmd/routerapi's worker pool can drive the same pipeline this server's
// synchronous /solve endpoint uses.
func (s *Server) SolveFunc() jobqueue.SolveFunc {
	return func(_ context.Context, input json.RawMessage) (json.RawMessage, error) {
		doc, err := ingest.Parse(bytes.NewReader(input))
		if err != nil {
			return nil, err
		}
		out, err := s.solveDocument(doc)
		if err != nil {
			return nil, err
		}
		return json.Marshal(out)
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIssueToken(c *gin.Context) {
	var req struct {
		Secret string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := s.issuer.Authenticate(req.Secret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "Bearer"})
}

// handleSolveSync runs a complete solve inline and returns the result
// document. Intended for small inputs; internal/jobqueue's async path
// is the intended route for large ones.
func (s *Server) handleSolveSync(c *gin.Context) {
	doc, err := ingest.Parse(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := s.solveDocument(doc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSubmitJob(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}
	id, err := s.queue.Enqueue(c.Request.Context(), json.RawMessage(data))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": id})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.queue.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleJobProgress(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	hub := s.hubFor(c.Param("id"))
	hub.Serve(conn)
}

func (s *Server) hubFor(jobID string) *progress.Hub {
	s.hubsMu.Lock()
	defer s.hubsMu.Unlock()
	if h, ok := s.hubs[jobID]; ok {
		return h
	}
	h := progress.NewHub(jobID)
	s.hubs[jobID] = h
	return h
}

// solveDocument runs the ingest -> construct -> ALNS -> report pipeline
// over a parsed Document and returns the output document.
func (s *Server) solveDocument(doc *ingest.Document) (*report.Output, error) {
	sol, err := doc.ToSolution()
	if err != nil {
		return nil, err
	}

	g := geo.NewService()
	construct.Build(sol, g, s.solverCfg.InsertionParams())
	result := alns.Run(sol, g, s.solverCfg.ALNSConfig(), s.solverCfg.Seed)

	return report.BuildOutput(result.Best, doc.Raw()), nil
}
