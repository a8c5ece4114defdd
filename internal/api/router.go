package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielpatrickdp/loopcap/internal/eval"
	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/metrics"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/store"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

// DefaultRunLimit applies when /runs is called without ?limit.
const DefaultRunLimit = 20

// RunReader is the part of store.Store the HTTP API reads.
type RunReader interface {
	ListRuns(limit int) ([]store.RunRecord, error)
	GetRun(runID string) (store.RunRecord, error)
	RunResults(runID string) ([]validation.Detail, error)
}

// Validator is the part of store.Store that POST /validate needs: the corpus,
// its labels, and somewhere to persist the run.
type Validator interface {
	validation.Corpus
	validation.LabelStore
	SaveRun(report validation.Report, verdict *eval.EvalResult) error
}

// Deps wires the router. Every field is optional.
type Deps struct {
	Runs      RunReader
	Validator Validator
	Gate      *eval.EvalConfig // nil means eval.DefaultEvalConfig()
	Workers   int
	Recorder  *metrics.Recorder
	Gatherer  prometheus.Gatherer // nil means prometheus.DefaultGatherer
	Logger    *slog.Logger
}

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Name    string              `json:"name"`
	Entries []sequence.RawEntry `json:"entries" binding:"required"`
}

// ValidateResponse is the body of POST /api/v1/validate.
type ValidateResponse struct {
	Report validation.Report `json:"report"`
	Gate   eval.EvalResult   `json:"gate"`
}

// RunResponse is the body of GET /api/v1/runs/:id.
type RunResponse struct {
	Run     store.RunRecord     `json:"run"`
	Details []validation.Detail `json:"details"`
}

// SetupRouter builds the HTTP API.
func SetupRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.Gate == nil {
		gate := eval.DefaultEvalConfig()
		d.Gate = &gate
	}
	h := &handlers{Deps: d}

	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	{
		api.POST("/classify", h.classify)
		api.POST("/validate", h.validate)

		runs := api.Group("/runs")
		{
			runs.GET("", h.listRuns)
			runs.GET("/:id", h.getRun)
		}
	}
	return r
}

type handlers struct {
	Deps
}

func (h *handlers) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.Logger.Debug("http request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"elapsed", time.Since(start),
	)
}

func (h *handlers) classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.observe("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Entries) == 0 {
		h.observe("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no entries"})
		return
	}

	seq := sequence.Extract(req.Name, req.Entries)
	start := time.Now()
	res := loop.Classify(seq)
	if h.Recorder != nil {
		h.Recorder.ObserveClassification(res, time.Since(start))
	}
	h.observe("ok")
	c.JSON(http.StatusOK, gin.H{"name": req.Name, "result": res})
}

// validate runs the harness over the stored corpus, gates it, and saves the run.
func (h *handlers) validate(c *gin.Context) {
	if h.Validator == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no store configured"})
		return
	}
	opts := validation.Options{Workers: h.Workers, Logger: h.Logger}
	if h.Recorder != nil {
		opts.Recorder = h.Recorder
	}

	report, err := validation.Run(c.Request.Context(), h.Validator, h.Validator, opts)
	if err != nil {
		h.observe("internal")
		h.Logger.Error("validation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	verdict := eval.NewEvalHarness(*h.Gate).Run(report)
	if err := h.Validator.SaveRun(report, &verdict); err != nil {
		h.observe("internal")
		h.Logger.Error("save run failed", "run_id", report.RunID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.Recorder != nil {
		h.Recorder.ObserveRun(report, verdict.Passed)
	}
	h.observe("ok")
	h.Logger.Info("validation run saved", "report", report, "passed", verdict.Passed)
	c.JSON(http.StatusOK, ValidateResponse{Report: report, Gate: verdict})
}

func (h *handlers) listRuns(c *gin.Context) {
	if h.Runs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no store configured"})
		return
	}
	limit := DefaultRunLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := h.Runs.ListRuns(limit)
	if err != nil {
		h.Logger.Error("list runs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []store.RunRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *handlers) getRun(c *gin.Context) {
	if h.Runs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no store configured"})
		return
	}
	id := c.Param("id")

	run, err := h.Runs.GetRun(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	details, err := h.Runs.RunResults(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if details == nil {
		details = []validation.Detail{}
	}
	c.JSON(http.StatusOK, RunResponse{Run: run, Details: details})
}

func (h *handlers) observe(outcome string) {
	if h.Recorder != nil {
		h.Recorder.ObserveRequest("http", outcome)
	}
}
