package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/domain"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/apierr"
	"github.com/yungbote/recipebook-backend/internal/platform/ctxutil"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
	"github.com/yungbote/recipebook-backend/internal/query"
	"github.com/yungbote/recipebook-backend/internal/resolve"
)

var tracer = otel.Tracer("recipebook/services")

// ChangePublisher receives an event after every successful write.
type ChangePublisher interface {
	Publish(ctx context.Context, change domain.Change) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Change) error { return nil }

// Deps are the collaborators shared by the catalog services.
type Deps struct {
	Repos     repos.Set
	Resolver  *resolve.Resolver
	Compiler  *query.Compiler
	Publisher ChangePublisher
	Metrics   *observability.Metrics
}

type ReadOption func(*readOptions)

type readOptions struct {
	depth int
}

// WithDepth overrides the reference resolution depth for one read.
func WithDepth(depth int) ReadOption {
	return func(o *readOptions) { o.depth = depth }
}

func readDepth(opts []ReadOption) int {
	o := readOptions{depth: -1}
	for _, opt := range opts {
		opt(&o)
	}
	return o.depth
}

type core struct {
	log       *logger.Logger
	kind      domain.Kind
	repos     repos.Set
	resolver  *resolve.Resolver
	compiler  *query.Compiler
	publisher ChangePublisher
	metrics   *observability.Metrics
	now       func() time.Time
}

func newCore(log *logger.Logger, kind domain.Kind, deps Deps) core {
	c := core{
		log:       log,
		kind:      kind,
		repos:     deps.Repos,
		resolver:  deps.Resolver,
		compiler:  deps.Compiler,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		now:       time.Now,
	}
	if c.resolver == nil {
		c.resolver = resolve.New(resolve.StoreSource(deps.Repos), log)
	}
	if c.compiler == nil {
		c.compiler = query.NewCompiler()
	}
	if c.publisher == nil {
		c.publisher = noopPublisher{}
	}
	return c
}

// begin opens a span for one operation and returns the finisher that records
// its outcome.
func (c *core) begin(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, c.kind.Title()+"."+op)
	span.SetAttributes(attribute.String("catalog.kind", string(c.kind)), attribute.String("catalog.op", op))
	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = apierr.Code(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			fields := append([]interface{}{"op", op, "code", outcome, "error", err}, ctxutil.LogFields(ctx)...)
			if apierr.IsClientError(err) {
				c.log.Debug("Catalog operation rejected", fields...)
			} else {
				c.log.Error("Catalog operation failed", fields...)
			}
		}
		span.End()
		c.metrics.ObserveOperation(c.kind, op, outcome, time.Since(start))
	}
}

func (c *core) storeErr(err error, storageID uuid.UUID, domainID int64) error {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return &domain.NotFoundError{Kind: c.kind, StorageID: storageID.String()}
	case errors.Is(err, repos.ErrDuplicateDomainID):
		return domain.NewValidationError(c.kind, "id", "ID must be unique", domainID)
	default:
		return fmt.Errorf("%s store: %w", c.kind, err)
	}
}

func (c *core) publish(ctx context.Context, doc domain.Document, action domain.ChangeAction) {
	change := domain.NewChange(doc, action, c.now())
	err := c.publisher.Publish(ctx, change)
	c.metrics.ObserveChange(change, err)
	if err != nil {
		c.log.Warn("Change event not published", "action", action, "id", change.DomainID, "error", err)
	}
}

// listPage counts the matching records, turns the page into a window and
// loads it. An empty result is not an error.
func listPage[D domain.Document](ctx context.Context, c *core, store repos.Store[D], filter query.Filter, page query.Page) ([]D, int64, error) {
	pred, err := c.compiler.Compile(c.kind, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := store.Count(ctx, pred)
	if err != nil {
		return nil, 0, fmt.Errorf("%s count: %w", c.kind, err)
	}
	if total == 0 {
		return []D{}, 0, nil
	}
	skip, limit := page.Window(total)
	if int64(skip) >= total {
		return []D{}, total, nil
	}
	docs, err := store.Find(ctx, pred, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%s find: %w", c.kind, err)
	}
	return docs, total, nil
}

// checkRefs verifies that every id exists in store and reports the missing
// ones as a ReferentialError.
func checkRefs[D domain.Document](ctx context.Context, store repos.Store[D], kind domain.Kind, field string, target domain.Kind, ids []int64) error {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return nil
	}
	found, err := repos.FindByDomainIDs(ctx, store, unique)
	if err != nil {
		return fmt.Errorf("check %s references: %w", target, err)
	}
	have := make(map[int64]struct{}, len(found))
	for _, d := range found {
		have[d.GetDomainID()] = struct{}{}
	}
	var missing []int64
	for _, id := range unique {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &domain.ReferentialError{Kind: kind, Field: field, Target: target, Missing: missing}
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func domainIDOf(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

// checkImmutable rejects any attempt to supply identity fields in a patch.
func checkImmutable(kind domain.Kind, storageID, domainID any) error {
	if domainID != nil {
		return &domain.ImmutableFieldError{Kind: kind, Field: "id"}
	}
	if storageID != nil {
		return &domain.ImmutableFieldError{Kind: kind, Field: "_id"}
	}
	return nil
}

// validateReplacement validates a full document. An omitted domain id keeps
// the stored one, so its absence is not a failure.
func validateReplacement(doc domain.Document, idSupplied bool) error {
	err := doc.Validate()
	if err == nil || idSupplied {
		return err
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Without("id").OrNil()
	}
	return err
}
