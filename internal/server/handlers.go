package server

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/adapter"
	"github.com/roach88/mathrw/internal/algebra"
	"github.com/roach88/mathrw/internal/engine"
	"github.com/roach88/mathrw/internal/history"
	"github.com/roach88/mathrw/internal/mathml"
	"github.com/roach88/mathrw/internal/rules"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Hello World from Math Expression Rewriting API",
		"status":  "running",
		"version": Version,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	services := gin.H{"server": "OK"}

	// Algebra self-test: factor a known quadratic.
	if expr, err := rules.ParseSide("x**2 + 2*x + 1"); err != nil {
		services["algebra"] = "ERROR - " + err.Error()
	} else {
		services["algebra"] = "OK - Test: " + expr.String() + " -> " + algebra.Factor(expr).String()
	}

	// Bridge self-test: round-trip a small expression through the markup
	// layer.
	if _, err := mathml.Parse("<math><apply><sin/><ci>x</ci></apply></math>"); err != nil {
		services["mathml"] = "ERROR - " + err.Error()
	} else {
		services["mathml"] = "OK - MathML processing available"
	}

	services["catalog"] = "OK - " + strconv.Itoa(s.suggester.CatalogLen()) + " rules loaded"

	if s.journal == nil {
		services["history"] = "disabled"
	} else if _, err := s.journal.Count(c.Request.Context()); err != nil {
		services["history"] = "ERROR - " + err.Error()
	} else {
		services["history"] = "OK"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"message":  "Math Expression Rewriting API is running",
		"services": services,
	})
}

type parseRequest struct {
	Expression   string `json:"expression" binding:"required"`
	OutputFormat string `json:"outputFormat"`
}

type parseResponse struct {
	Success          bool     `json:"success"`
	ParsedExpression string   `json:"parsedExpression,omitempty"`
	Variables        []string `json:"variables,omitempty"`
	ErrorMessage     string   `json:"errorMessage,omitempty"`
}

func (s *Server) handleParse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, parseResponse{Success: false, ErrorMessage: "Parsing failed: " + err.Error()})
		return
	}

	expr, err := rules.ParseSide(req.Expression)
	if err != nil {
		c.JSON(http.StatusOK, parseResponse{Success: false, ErrorMessage: "Parsing failed: " + err.Error()})
		return
	}

	rendered, err := renderAs(expr, req.OutputFormat)
	if err != nil {
		c.JSON(http.StatusOK, parseResponse{Success: false, ErrorMessage: err.Error()})
		return
	}

	c.JSON(http.StatusOK, parseResponse{
		Success:          true,
		ParsedExpression: rendered,
		Variables:        sortedVariables(expr),
	})
}

type rewriteRequest struct {
	Expression   string   `json:"expression" binding:"required"`
	Rules        []string `json:"rules" binding:"required"`
	OutputFormat string   `json:"outputFormat"`
}

type rewriteStep struct {
	Rule             string `json:"rule"`
	ExpressionBefore string `json:"expressionBefore"`
	ExpressionAfter  string `json:"expressionAfter"`
	Description      string `json:"description"`
}

type rewriteResponse struct {
	Success            bool          `json:"success"`
	OriginalExpression string        `json:"originalExpression,omitempty"`
	FinalExpression    string        `json:"finalExpression,omitempty"`
	Steps              []rewriteStep `json:"steps,omitempty"`
	ContentMathML      string        `json:"contentMathML,omitempty"`
	ErrorMessage       string        `json:"errorMessage,omitempty"`
}

func (s *Server) handleRewrite(c *gin.Context) {
	var req rewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rewriteResponse{Success: false, ErrorMessage: "Rewriting failed: " + err.Error()})
		return
	}

	original, err := rules.ParseSide(req.Expression)
	if err != nil {
		c.JSON(http.StatusOK, rewriteResponse{
			Success:            false,
			OriginalExpression: req.Expression,
			ErrorMessage:       "Rewriting failed: " + err.Error(),
		})
		return
	}

	current := original
	steps := make([]rewriteStep, 0, len(req.Rules))
	for _, name := range req.Rules {
		before := current.String()
		next, description, err := applyTransform(name, current)
		if err != nil {
			c.JSON(http.StatusOK, rewriteResponse{
				Success:            false,
				OriginalExpression: original.String(),
				Steps:              steps,
				ErrorMessage:       "Rewriting failed: " + err.Error(),
			})
			return
		}
		current = next
		steps = append(steps, rewriteStep{
			Rule:             name,
			ExpressionBefore: before,
			ExpressionAfter:  current.String(),
			Description:      description,
		})
	}

	final, err := renderAs(current, req.OutputFormat)
	if err != nil {
		c.JSON(http.StatusOK, rewriteResponse{Success: false, OriginalExpression: original.String(), ErrorMessage: err.Error()})
		return
	}

	c.JSON(http.StatusOK, rewriteResponse{
		Success:            true,
		OriginalExpression: original.String(),
		FinalExpression:    final,
		Steps:              steps,
		ContentMathML:      mathml.RenderContent(adapter.FromExpr(current)),
	})
}

type rewriteOptionsRequest struct {
	ContentMathML  string            `json:"contentMathML" binding:"required"`
	SelectedNodeID string            `json:"selectedNodeId"`
	Assumptions    map[string]string `json:"assumptions"`
}

func (s *Server) handleRewriteOptions(c *gin.Context) {
	var req rewriteOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}

	start := time.Now()
	options, err := s.suggester.SuggestMarkup(req.ContentMathML, req.SelectedNodeID, req.Assumptions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid Content MathML: " + err.Error()})
		return
	}
	if options == nil {
		options = []engine.Option{}
	}

	s.record(c, history.Entry{
		ID:             c.GetString(requestIDKey),
		ReceivedAt:     start,
		Endpoint:       "/rewriteOptions",
		ContentMathML:  req.ContentMathML,
		SelectedNodeID: req.SelectedNodeID,
		Assumptions:    req.Assumptions,
		OptionCount:    len(options),
		DurationMS:     time.Since(start).Milliseconds(),
	})

	c.JSON(http.StatusOK, gin.H{"options": options})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	entries, err := s.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("history read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": entries})
}

// record journals an entry when the journal is enabled. Journal failures are
// logged, never surfaced: the suggestion response is already computed.
func (s *Server) record(c *gin.Context, e history.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(c.Request.Context(), e); err != nil {
		s.logger.Error("journal write failed", zap.Error(err), zap.String("id", e.ID))
	}
}

// renderAs serializes an expression in the requested output format. An
// empty format means plain text.
func renderAs(e algebra.Expr, format string) (string, error) {
	switch format {
	case "", "text":
		return e.String(), nil
	case "contentMathML":
		return mathml.RenderContent(adapter.FromExpr(e)), nil
	case "presentationMathML":
		return mathml.RenderPresentation(e), nil
	default:
		return "", &unknownFormatError{format: format}
	}
}

type unknownFormatError struct{ format string }

func (e *unknownFormatError) Error() string {
	return "unknown output format " + strconv.Quote(e.format) + ": use text, contentMathML, or presentationMathML"
}

func sortedVariables(e algebra.Expr) []string {
	free := algebra.FreeSymbols(e)
	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
