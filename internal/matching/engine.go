// Package matching selects and ranks the tutors eligible for an order.
package matching

import (
	"context"
	"fmt"

	"github.com/productPach/tutorio-backend-sub000/internal/database"
	"github.com/productPach/tutorio-backend-sub000/internal/database/models"
	"github.com/productPach/tutorio-backend-sub000/internal/database/types"
	"go.uber.org/zap"
)

const (
	// DefaultPageSize is used when a request does not specify one.
	DefaultPageSize = 20
)

// Request is the order projection the engine matches against.
type Request struct {
	Subject          string   `json:"subject"`
	GoalID           string   `json:"goalId"`
	PlaceDescriptors []string `json:"placeDescriptors"`
	Region           string   `json:"region"`
	TripAreaIDs      []string `json:"tripAreaIds"`
	HomeLocationIDs  []string `json:"homeLocationIds"`
	PriceTier        int      `json:"priceTier"`
	Page             int      `json:"page"`
	PageSize         int      `json:"pageSize"`
}

// Result is one page of matched tutors plus the pagination envelope.
type Result struct {
	Tutors     []*types.Tutor `json:"tutors"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
}

// Engine matches orders to tutors. It is read-only and safe for concurrent
// use.
type Engine struct {
	db     database.Client
	logger *zap.Logger
}

// NewEngine creates a new matching engine.
func NewEngine(db database.Client, logger *zap.Logger) *Engine {
	return &Engine{
		db:     db,
		logger: logger.Named("matching"),
	}
}

// MatchOrder loads a stored order and matches its projection. An order
// that does not exist surfaces types.ErrOrderNotFound so callers can tell
// a vanished order apart from an order with no matches.
func (e *Engine) MatchOrder(ctx context.Context, orderID string, page, pageSize int) (*Result, error) {
	order, err := e.db.Model().Order().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return e.Match(ctx, &Request{
		Subject:          order.SubjectID,
		GoalID:           order.GoalID,
		PlaceDescriptors: order.PlaceDescriptors,
		Region:           order.Region,
		TripAreaIDs:      order.TripAreaIDs,
		HomeLocationIDs:  order.HomeLocationIDs,
		PriceTier:        order.PriceTier,
		Page:             page,
		PageSize:         pageSize,
	})
}

// Match selects the tutors eligible for the given order projection and
// returns the requested page, sorted by total rating descending with tutor
// ID as the deterministic tie-breaker. An order referencing an unknown
// subject or goal yields an empty result; malformed place descriptors and
// price tiers surface as errors so data-entry problems stay distinguishable
// from "no matches".
func (e *Engine) Match(ctx context.Context, req *Request) (*Result, error) {
	formats, err := CanonicalFormats(req.PlaceDescriptors)
	if err != nil {
		e.logger.Error("Order has malformed place descriptors",
			zap.Strings("placeDescriptors", req.PlaceDescriptors), zap.Error(err))
		return nil, err
	}

	if formats.IsEmpty() {
		e.logger.Error("Order requests no lesson format",
			zap.String("subject", req.Subject), zap.String("goalID", req.GoalID))
		return nil, fmt.Errorf("%w: empty descriptor list", ErrUnknownPlace)
	}

	band, err := BandForTier(req.PriceTier)
	if err != nil {
		e.logger.Error("Order has unknown price tier",
			zap.Int("priceTier", req.PriceTier), zap.Error(err))
		return nil, err
	}

	candidates, err := e.db.Model().Tutor().GetMatchCandidates(ctx, &models.CandidateFilter{
		SubjectID:       req.Subject,
		GoalID:          req.GoalID,
		Region:          req.Region,
		Online:          formats.Online,
		Home:            formats.Home,
		Travel:          formats.Travel,
		TripAreaIDs:     req.TripAreaIDs,
		HomeLocationIDs: req.HomeLocationIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query match candidates: %w", err)
	}

	// Refinement preserves the store's ordering, so the page slice stays
	// deterministic.
	matched := make([]*types.Tutor, 0, len(candidates))
	for _, tutor := range candidates {
		if PassesPriceBand(tutor.Prices, formats, band) {
			matched = append(matched, tutor)
		}
	}

	return paginate(matched, req.Page, req.PageSize), nil
}

// paginate slices the sorted match set into the requested page and fills the
// pagination envelope. Page numbers are 1-based.
func paginate(tutors []*types.Tutor, page, pageSize int) *Result {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	totalCount := len(tutors)
	totalPages := (totalCount + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > totalCount {
		start = totalCount
	}

	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	return &Result{
		Tutors:     tutors[start:end],
		TotalCount: totalCount,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}
