package server

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/engine"
	"github.com/roach88/mathrw/internal/history"
)

// Version is reported by the root and health endpoints.
const Version = "1.0.0"

// Server binds the suggestion engine and the optional request journal to an
// HTTP router. Construct with New and mount via Router.
type Server struct {
	suggester *engine.Suggester
	journal   *history.Journal // nil disables journaling
	logger    *zap.Logger
	origin    *regexp.Regexp
}

// New builds a Server. journal may be nil; originPattern must compile, an
// empty pattern falls back to local dev origins.
func New(suggester *engine.Suggester, journal *history.Journal, originPattern string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if originPattern == "" {
		originPattern = `https?://(localhost|127\.0\.0\.1)(:\d+)?`
	}
	origin, err := regexp.Compile("^(" + originPattern + ")$")
	if err != nil {
		return nil, err
	}
	return &Server{
		suggester: suggester,
		journal:   journal,
		logger:    logger,
		origin:    origin,
	}, nil
}

// Router assembles the gin engine with middleware and all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestID())
	r.Use(s.requestLogger())
	r.Use(s.cors())

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.POST("/api/parse", s.handleParse)
	r.POST("/api/rewrite", s.handleRewrite)
	r.POST("/rewriteOptions", s.handleRewriteOptions)
	r.GET("/history", s.handleHistory)

	return r
}
