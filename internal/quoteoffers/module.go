// Package quoteoffers provides the quote offer domain module.
package quoteoffers

import (
	"context"

	apphttp "quoteoffer_backend/internal/http"
	"quoteoffer_backend/internal/quoteoffers/handler"
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/service"
	"quoteoffer_backend/platform/events"
	"quoteoffer_backend/platform/logger"
	"quoteoffer_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quote offer domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quote offer module with all dependencies wired
func NewModule(ctx context.Context, pool *pgxpool.Pool, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger, validityDays int) (*Module, error) {
	repo, err := repository.New(pool)
	if err != nil {
		return nil, err
	}

	seq := service.NewSequenceService(repo, log)
	seq.Init(ctx)

	svc := service.New(repo, seq, log, validityDays)
	svc.SetEventBus(eventBus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quoteoffers"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	drafts := ctx.Protected.Group("/draft-quotes")
	m.handler.RegisterDraftRoutes(drafts)

	quotes := ctx.Protected.Group("/quotes")
	m.handler.RegisterQuoteRoutes(quotes)

	// Attachments can live on drafts and finalized quotes alike.
	files := ctx.Protected.Group("/quote-offers")
	m.handler.RegisterFileRoutes(files)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
