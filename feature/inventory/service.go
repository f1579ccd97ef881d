package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"inventory-manager/core/cache"
	"inventory-manager/core/metrics"
	"inventory-manager/core/variant"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backend serves the three upstream datasets plus the product catalog
// lookup. Repository and SnapshotStore implement it.
type Backend interface {
	variant.CategoryAttributeSource
	variant.ProductAttributeSource
	variant.InventoryRecordSource
	CategoryOf(ctx context.Context, productID int64) (int64, error)
}

// Service exposes schema reconciliation, variant resolution and inventory
// aggregation over a Backend.
type Service struct {
	backend Backend
	engine  variant.Config
	metrics *metrics.Metrics
	logger  *zap.Logger
	schemas *cache.Loader[*variant.Schema]
}

// NewService creates a new inventory service. Schemas are cached in store
// for ttl; records are always read fresh so quantities are never stale.
func NewService(backend Backend, store cache.Store, ttl time.Duration, engine variant.Config, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	schemas := cache.NewLoader[*variant.Schema]("schema", store, "schema:", ttl).
		Observe(m.RecordCacheLookup)
	if engine.FetchTimeoutSeconds > 0 {
		schemas.WithTimeout(engine.FetchTimeout())
	}
	return &Service{
		backend: backend,
		engine:  engine,
		metrics: m,
		logger:  logger,
		schemas: schemas,
	}
}

// noLinks stands in for the category source when the product's category
// is unknown.
type noLinks struct{}

func (noLinks) ListAttributeTypesForCategory(context.Context, int64) ([]variant.CategoryAttributeLink, error) {
	return nil, nil
}

func (s *Service) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.engine.FetchTimeoutSeconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.engine.FetchTimeout())
}

func (s *Service) sources() variant.Sources {
	return variant.Sources{Categories: s.backend, Assignments: s.backend, Records: s.backend}
}

// ReconcileSchema returns the attribute schema of a product. A zero
// categoryID is looked up from the product. When the lookup fails for any
// reason other than an unknown product, the schema is built without
// category links and marked degraded. Schemas built from a degraded fetch
// are returned but not cached.
func (s *Service) ReconcileSchema(ctx context.Context, categoryID, productID int64) (*variant.Schema, error) {
	sources := s.sources()
	var lookupErr error
	if categoryID == 0 {
		id, err := s.backend.CategoryOf(ctx, productID)
		switch {
		case err == nil:
			categoryID = id
		case errors.Is(err, ErrProductNotFound) || ctx.Err() != nil:
			return nil, err
		default:
			lookupErr = err
			sources.Categories = noLinks{}
		}
	}

	key := strconv.FormatInt(categoryID, 10) + ":" + strconv.FormatInt(productID, 10)
	return s.schemas.GetOrLoad(ctx, key, func(ctx context.Context) (*variant.Schema, bool, error) {
		fctx, cancel := s.fetchContext(ctx)
		defer cancel()

		fetched := sources.Fetch(fctx, categoryID, productID, 0)
		if lookupErr != nil {
			fetched.Errors[variant.SourceProducts] = lookupErr
		}
		schema := variant.Reconcile(fetched.Input(categoryID, productID))

		if len(fetched.Errors) > 0 {
			s.metrics.RecordSourceFailures(schema.Degraded)
			fields := []zap.Field{zap.Int64("product_id", productID), zap.Strings("degraded", schema.Degraded)}
			for name, err := range fetched.Errors {
				fields = append(fields, zap.NamedError(name, err))
			}
			s.logger.Warn("Schema reconciled from partial data", fields...)
		}
		return schema, len(schema.Degraded) == 0, nil
	})
}

// branchIndex fetches the product's assignments and the branch's records
// concurrently. Missing assignments degrade the index; missing records fail it.
func (s *Service) branchIndex(ctx context.Context, schema *variant.Schema, productID, branchID int64) (*variant.Index, bool, error) {
	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	var (
		assignments []variant.ProductAttributeAssignment
		records     []variant.InventoryRecord
		degraded    bool
	)
	g, gctx := errgroup.WithContext(fctx)
	g.Go(func() error {
		a, err := s.backend.ListAssignments(gctx, productID)
		if err != nil {
			s.metrics.RecordSourceFailures([]string{variant.SourceProductAssignments})
			s.logger.Warn("Assignments unavailable, resolving from records only",
				zap.Int64("product_id", productID), zap.Error(err))
			degraded = true
			return nil
		}
		assignments = a
		return nil
	})
	g.Go(func() error {
		pid := productID
		r, err := s.backend.ListRecords(gctx, branchID, &pid)
		if err != nil {
			s.metrics.RecordSourceFailures([]string{variant.SourceInventoryRecords})
			return fmt.Errorf("failed to fetch inventory records: %w", err)
		}
		records = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	return variant.NewIndex(variant.NewSchemaIndex(schema), assignments, records), degraded, nil
}

// Resolve maps a selection to the inventory record of one variant at one
// branch. NotFound is reported in the Resolution, not as an error.
func (s *Service) Resolve(ctx context.Context, productID, branchID int64, selection variant.Selection) (variant.Resolution, error) {
	schema, err := s.ReconcileSchema(ctx, 0, productID)
	if err != nil {
		return variant.Resolution{}, err
	}

	idx, _, err := s.branchIndex(ctx, schema, productID, branchID)
	if err != nil {
		return variant.Resolution{}, err
	}
	res := variant.Resolve(idx, variant.Request{ProductID: productID, BranchID: branchID, Selection: selection})

	s.metrics.RecordResolution(res.Outcome())
	if res.LowConfidence {
		s.logger.Debug("Low confidence resolution",
			zap.Int64("product_id", productID),
			zap.Int64("branch_id", branchID),
			zap.String("reason", string(res.Reason)))
	}
	return res, nil
}

// DimensionOptions describes one dimension of the variant picker.
type DimensionOptions struct {
	Dimension  variant.Dimension        `json:"dimension"`
	Selected   int64                    `json:"selected,omitempty"`
	Selectable bool                     `json:"selectable"`
	Available  []variant.AttributeValue `json:"available"`
}

// Options is the variant picker read model for a product at a branch.
type Options struct {
	ProductID  int64               `json:"product_id"`
	BranchID   int64               `json:"branch_id"`
	Phase      variant.Phase       `json:"phase"`
	Dimensions []DimensionOptions  `json:"dimensions"`
	Resolution *variant.Resolution `json:"resolution,omitempty"`
	Degraded   []string            `json:"degraded,omitempty"`
}

// Options replays the choices through a selection state, in dimension
// order, and reports what can be chosen next. The resolution is included
// once every dimension holds a value.
func (s *Service) Options(ctx context.Context, productID, branchID int64, choices []variant.Choice) (*Options, error) {
	schema, err := s.ReconcileSchema(ctx, 0, productID)
	if err != nil {
		return nil, err
	}
	idx, degraded, err := s.branchIndex(ctx, schema, productID, branchID)
	if err != nil {
		return nil, err
	}

	state := variant.NewSelectionState()
	state.PickProduct(productID, idx.Schema(), idx)

	selection := variant.SelectionFrom(choices)
	for typeID := range selection {
		if _, ok := idx.Schema().Position(typeID); !ok {
			return nil, fmt.Errorf("%w: %d", variant.ErrUnknownDimension, typeID)
		}
	}
	for _, d := range idx.Schema().Dimensions() {
		valueID, ok := selection[d.Type.ID]
		if !ok {
			continue
		}
		if err := state.Select(d.Type.ID, valueID); err != nil {
			return nil, fmt.Errorf("cannot select %s: %w", d.Type.Name, err)
		}
	}

	out := &Options{
		ProductID:  productID,
		BranchID:   branchID,
		Phase:      state.Phase(),
		Dimensions: make([]DimensionOptions, 0, idx.Schema().Len()),
		Degraded:   append([]string(nil), schema.Degraded...),
	}
	if degraded {
		out.Degraded = append(out.Degraded, variant.SourceProductAssignments)
	}

	current := state.Selection()
	for _, d := range idx.Schema().Dimensions() {
		opt := DimensionOptions{
			Dimension:  d,
			Selected:   current[d.Type.ID],
			Selectable: state.Selectable(d.Type.ID),
			Available:  []variant.AttributeValue{},
		}
		if opt.Selectable {
			values, err := state.AvailableValuesFor(d.Type.ID)
			if err != nil {
				return nil, err
			}
			opt.Available = values
		}
		out.Dimensions = append(out.Dimensions, opt)
	}

	if state.Complete() {
		res := variant.Resolve(idx, state.Request(branchID))
		s.metrics.RecordResolution(res.Outcome())
		out.Resolution = &res
	}
	return out, nil
}

// AggregateResult is the aggregated inventory of a branch.
type AggregateResult struct {
	BranchID int64         `json:"branch_id"`
	Mode     variant.Mode  `json:"mode"`
	Rows     []variant.Row `json:"rows"`

	// Unenriched lists products whose assignments could not be fetched;
	// their rows are labeled from the records' own attribute pair.
	Unenriched []int64 `json:"unenriched,omitempty"`
}

// Aggregate sums a branch's inventory. A nil productID covers every product
// of the branch. Detail mode orders label parts by each product's schema.
func (s *Service) Aggregate(ctx context.Context, branchID int64, productID *int64, mode variant.Mode) (*AggregateResult, error) {
	if mode != variant.ModeSummary && mode != variant.ModeDetail {
		return nil, variant.ErrUnknownMode
	}

	fctx, cancel := s.fetchContext(ctx)
	records, err := s.backend.ListRecords(fctx, branchID, productID)
	cancel()
	if err != nil {
		s.metrics.RecordSourceFailures([]string{variant.SourceInventoryRecords})
		return nil, fmt.Errorf("failed to fetch inventory records: %w", err)
	}

	productIDs := variant.ProductIDs(records)
	enrichment, err := variant.NewEnricher(s.backend, s.engine.EnrichmentBatchSize).Enrich(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	result := &AggregateResult{BranchID: branchID, Mode: mode}
	for id, ferr := range enrichment.Failed {
		result.Unenriched = append(result.Unenriched, id)
		s.metrics.RecordSourceFailures([]string{variant.SourceProductAssignments})
		s.logger.Warn("Assignments unavailable for labeling", zap.Int64("product_id", id), zap.Error(ferr))
	}
	sort.Slice(result.Unenriched, func(i, j int) bool { return result.Unenriched[i] < result.Unenriched[j] })

	var schemas []*variant.Schema
	if mode == variant.ModeDetail {
		if schemas, err = s.loadSchemas(ctx, productIDs); err != nil {
			return nil, err
		}
	}

	rows, err := variant.Aggregate(variant.AggregateInput{
		Records:     records,
		Assignments: enrichment.Assignments,
		Schemas:     schemas,
	}, mode)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []variant.Row{}
	}
	result.Rows = rows
	s.metrics.ObserveRows(string(mode), len(rows))
	return result, nil
}

// loadSchemas loads the schemas of many products through the schema cache,
// at most EnrichmentBatchSize at a time. Products without a schema are
// skipped; their labels keep assignment order.
func (s *Service) loadSchemas(ctx context.Context, productIDs []int64) ([]*variant.Schema, error) {
	limit := s.engine.EnrichmentBatchSize
	if limit <= 0 {
		limit = variant.DefaultBatchSize
	}

	var mu sync.Mutex
	schemas := make([]*variant.Schema, 0, len(productIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range productIDs {
		g.Go(func() error {
			schema, err := s.ReconcileSchema(gctx, 0, id)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.logger.Warn("Schema unavailable for labeling", zap.Int64("product_id", id), zap.Error(err))
				return nil
			}
			mu.Lock()
			schemas = append(schemas, schema)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return schemas, nil
}
