package repository

import (
	"context"
	"errors"
	"time"

	"quoteoffer_backend/internal/docstore"
	"quoteoffer_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgxpool"
)

const offerNotFoundMsg = "quote offer not found"

// ListParams contains parameters for searching quote offers.
type ListParams struct {
	ClientNumber   string
	RequestQuoteID string
	Status         *Status
	Statuses       []Status
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	ExpiresBefore  *time.Time
	Search         string
	SortBy         string
	SortOrder      string
	Page           int
	PageSize       int
}

// ListResult contains the paginated search result.
type ListResult struct {
	Items      []QuoteOffer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Store is the persistence contract for quote offers. The docstore-backed
// Repository is the canonical implementation; tests use an in-memory fake.
type Store interface {
	Create(ctx context.Context, offer *QuoteOffer) error
	GetByID(ctx context.Context, id string) (*QuoteOffer, error)
	Update(ctx context.Context, offer *QuoteOffer) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, params ListParams) (*ListResult, error)
	MaxQuoteOfferNumber(ctx context.Context) (int, bool, error)
}

// Repository provides document-store operations for quote offers.
type Repository struct {
	coll *docstore.Collection[QuoteOffer]
}

// New creates a quote offer repository over the quote_offers table.
func New(pool *pgxpool.Pool) (*Repository, error) {
	coll, err := docstore.NewCollection[QuoteOffer](pool, "quote_offers")
	if err != nil {
		return nil, err
	}
	return &Repository{coll: coll}, nil
}

// Create inserts a new quote offer document.
func (r *Repository) Create(ctx context.Context, offer *QuoteOffer) error {
	return r.coll.Insert(ctx, offer.ID, offer)
}

// GetByID loads one quote offer by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*QuoteOffer, error) {
	offer, err := r.coll.Get(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound(offerNotFoundMsg)
		}
		return nil, err
	}
	return offer, nil
}

// Update replaces the whole aggregate document. Single-row writes are atomic;
// concurrent writers to the same id resolve last-write-wins.
func (r *Repository) Update(ctx context.Context, offer *QuoteOffer) error {
	if err := r.coll.Replace(ctx, offer.ID, offer); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound(offerNotFoundMsg)
		}
		return err
	}
	return nil
}

// Delete removes the quote offer document (hard delete).
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound(offerNotFoundMsg)
		}
		return err
	}
	return nil
}

// Search lists quote offers matching the filter with offset pagination.
func (r *Repository) Search(ctx context.Context, params ListParams) (*ListResult, error) {
	query := buildQuery(params)

	total, err := r.coll.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	query.Page(pageSize, (page-1)*pageSize)

	items, err := r.coll.List(ctx, query)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// MaxQuoteOfferNumber returns the highest assigned offer number.
// The boolean is false when no offers exist yet.
func (r *Repository) MaxQuoteOfferNumber(ctx context.Context) (int, bool, error) {
	return r.coll.MaxInt(ctx, "quoteOfferNumber")
}

func buildQuery(params ListParams) *docstore.Query {
	query := docstore.NewQuery()

	if params.ClientNumber != "" {
		query.Eq("clientNumber", params.ClientNumber)
	}
	if params.RequestQuoteID != "" {
		query.Eq("requestQuoteId", params.RequestQuoteID)
	}
	if params.Status != nil {
		query.Eq("status", string(*params.Status))
	}
	if len(params.Statuses) > 0 {
		values := make([]string, 0, len(params.Statuses))
		for _, s := range params.Statuses {
			values = append(values, string(s))
		}
		query.In("status", values...)
	}
	if params.CreatedFrom != nil {
		query.GteTime("createdDate", params.CreatedFrom.UTC().Format(time.RFC3339Nano))
	}
	if params.CreatedTo != nil {
		query.LteTime("createdDate", params.CreatedTo.UTC().Format(time.RFC3339Nano))
	}
	if params.ExpiresBefore != nil {
		query.LtTime("expirationDate", params.ExpiresBefore.UTC().Format(time.RFC3339Nano))
	}
	if params.Search != "" {
		query.ContainsAny(params.Search, "clientNumber", "emailUser", "comment")
	}

	sortField := resolveSortField(params.SortBy)
	desc := params.SortOrder != "asc"
	switch sortField {
	case "quoteOfferNumber":
		query.OrderByNumeric(sortField, desc)
	case "createdDate", "updatedAt":
		query.OrderByTime(sortField, desc)
	default:
		query.OrderBy(sortField, desc)
	}
	return query
}

// resolveSortField whitelists sortable fields; anything else falls back to
// the default created-date ordering.
func resolveSortField(sortBy string) string {
	switch sortBy {
	case "updatedAt", "clientNumber", "quoteOfferNumber", "status":
		return sortBy
	default:
		return "createdDate"
	}
}
