package http

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muzansiddig/Veritas-Legal/internal/config"
	"github.com/muzansiddig/Veritas-Legal/internal/domain"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/db"
	"github.com/muzansiddig/Veritas-Legal/internal/usecase"
)

type Server struct {
	cfg config.Config
	r   *gin.Engine

	cases     *usecase.CaseService
	chain     *usecase.EvidenceChainService
	analysis  *usecase.AnalysisService
	workspace *usecase.WorkspaceService
	search    *usecase.SearchService
	ledger    *usecase.AuditLedger

	authenticator Authenticator

	rateLimiter       domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
}

type ServerDeps struct {
	Cases     *usecase.CaseService
	Chain     *usecase.EvidenceChainService
	Analysis  *usecase.AnalysisService
	Workspace *usecase.WorkspaceService
	Search    *usecase.SearchService
	Ledger    *usecase.AuditLedger

	Authenticator Authenticator
	RateLimiter   domain.RateLimiter
}

// NewServer wires the full stack from a connected store and the external
// collaborators main constructed.
func NewServer(cfg config.Config, store *db.Store, blobs domain.BlobStore, analyzer domain.Analyzer, renderer usecase.DossierRenderer, limiter domain.RateLimiter) *Server {
	caseRepo := db.NewCaseRepository(store.DB)
	evidenceRepo := db.NewEvidenceRepository(store.DB)
	auditRepo := db.NewAuditRepository(store.DB)
	taskRepo := db.NewTaskRepository(store.DB)
	calendarRepo := db.NewCalendarRepository(store.DB)
	invoiceRepo := db.NewInvoiceRepository(store.DB)
	jobRepo := db.NewAnalysisJobRepository(store.DB)
	searchRepo := db.NewSearchRepository(store.DB)

	ledger := usecase.NewAuditLedger(auditRepo, nil)
	chain := usecase.NewEvidenceChainService(caseRepo, evidenceRepo, blobs, ledger, nil)

	return NewServerWithDeps(cfg, ServerDeps{
		Cases:         usecase.NewCaseService(caseRepo, evidenceRepo, auditRepo, ledger, renderer),
		Chain:         chain,
		Analysis:      usecase.NewAnalysisService(caseRepo, evidenceRepo, jobRepo, chain, ledger, analyzer),
		Workspace:     usecase.NewWorkspaceService(taskRepo, calendarRepo, invoiceRepo, ledger),
		Search:        usecase.NewSearchService(searchRepo),
		Ledger:        ledger,
		Authenticator: NewHeaderAuthenticator(),
		RateLimiter:   limiter,
	})
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:               cfg,
		r:                 r,
		cases:             deps.Cases,
		chain:             deps.Chain,
		analysis:          deps.Analysis,
		workspace:         deps.Workspace,
		search:            deps.Search,
		ledger:            deps.Ledger,
		authenticator:     deps.Authenticator,
		rateLimiter:       deps.RateLimiter,
		rateLimitRequests: cfg.RateLimitRequests,
		rateLimitWindow:   cfg.RateLimitWindow(),
	}
	if s.authenticator == nil {
		s.authenticator = NewHeaderAuthenticator()
	}
	s.routes()
	return s
}

func (s *Server) Run() error {
	addr := s.cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("veritasd listening on %s", addr)
	return s.r.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() *gin.Engine {
	return s.r
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := s.r.Group("/api/v1")
	v1.Use(s.rateLimitMiddleware())
	{
		auth := s.authMiddleware()

		v1.POST("/cases", auth, s.handleCreateCase)
		v1.GET("/cases", auth, s.handleListCases)
		v1.GET("/cases/:id", auth, s.handleGetCase)
		v1.PATCH("/cases/:id", auth, s.handleUpdateCase)
		v1.POST("/cases/:id/lock", s.authMiddleware(domain.RoleOwner, domain.RoleAdmin), s.handleLockCase)
		v1.GET("/cases/:id/timeline", auth, s.handleTimeline)
		v1.GET("/cases/:id/export", auth, s.handleExportDossier)
		v1.GET("/cases/:id/chain", auth, s.handleVerifyChain)

		v1.POST("/cases/:id/evidence", auth, s.handleUploadEvidence)
		v1.GET("/cases/:id/evidence", auth, s.handleListEvidence)
		v1.GET("/evidence/:id", auth, s.handleGetEvidence)

		v1.POST("/analysis/:evidence_id", auth, s.handleTriggerAnalysis)
		v1.GET("/analysis/:evidence_id/status", auth, s.handleAnalysisStatus)

		v1.POST("/tasks", auth, s.handleCreateTask)
		v1.GET("/tasks", auth, s.handleListTasks)
		v1.POST("/events", auth, s.handleCreateEvent)
		v1.GET("/events", auth, s.handleListEvents)
		v1.POST("/invoices", auth, s.handleCreateInvoice)
		v1.GET("/invoices", auth, s.handleListInvoices)

		v1.GET("/search", auth, s.handleSearch)

		v1.GET("/audit", auth, s.handleListAudit)
		v1.GET("/audit/verify", s.authMiddleware(domain.RoleOwner, domain.RoleAdmin), s.handleVerifyLedger)
	}
}
