package compose

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"VideoTube.com/pkg/errno"
)

const defaultConcurrency = 8

// AnomalyFunc is told when a lookup that should match at most one document
// matched several. Composition continues with the first match.
type AnomalyFunc func(ctx context.Context, collection string, filter Filter, matches int)

// Composer resolves profiles against a Source. It holds no per-request
// state and is safe for concurrent use.
type Composer struct {
	src         Source
	concurrency int
	onAnomaly   AnomalyFunc
}

type Option func(*Composer)

// WithConcurrency bounds how many items of a page are enriched at once.
func WithConcurrency(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithAnomalyHandler(fn AnomalyFunc) Option {
	return func(c *Composer) {
		if fn != nil {
			c.onAnomaly = fn
		}
	}
}

func New(src Source, opts ...Option) *Composer {
	c := &Composer{
		src:         src,
		concurrency: defaultConcurrency,
		onAnomaly:   logAnomaly,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func logAnomaly(ctx context.Context, collection string, filter Filter, matches int) {
	hlog.CtxWarnf(ctx, "integrity anomaly: %d documents in %s match %+v, expected at most one", matches, collection, filter)
}

// ComposeOne finds the single document of collection selected by filter and
// returns its read model as described by p.
func (c *Composer) ComposeOne(ctx context.Context, collection string, filter Filter, viewerID int64, p *Profile) (Document, error) {
	if p == nil {
		return nil, errno.ServiceErr.WithMessage("compose: nil profile")
	}
	f, err := validateFilter(filter, true)
	if err != nil {
		return nil, err
	}
	docs, err := c.src.Find(ctx, collection, f, FindOptions{Limit: 2})
	if err != nil {
		return nil, upstream(err, "find %s", collection)
	}
	if len(docs) == 0 {
		return nil, errno.NotFoundErr.WithMessage(fmt.Sprintf("%s not found", collection))
	}
	if len(docs) > 1 {
		c.onAnomaly(ctx, collection, f, len(docs))
	}
	doc := cloneDoc(docs[0])
	if err := c.enrich(ctx, doc, p.Relations, viewerID); err != nil {
		return nil, err
	}
	return p.Project.Apply(doc), nil
}

// enrich resolves rels onto doc. Lookups run concurrently and their results
// are written to doc only after all of them finished.
func (c *Composer) enrich(ctx context.Context, doc Document, rels []Relation, viewerID int64) error {
	if len(rels) == 0 {
		return nil
	}
	values := make([]any, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	for i := range rels {
		r := rels[i]
		if !r.Kind.fetches() {
			continue
		}
		g.Go(func() error {
			v, err := c.resolve(gctx, doc, r, viewerID)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, r := range rels {
		if r.Kind.fetches() {
			doc[r.As] = values[i]
		}
	}
	for _, r := range rels {
		switch r.Kind {
		case KindSize:
			doc[r.As] = int64(len(asDocs(doc[r.Of])))
		case KindSum:
			doc[r.As] = sumField(asDocs(doc[r.Of]), r.Field)
		}
	}
	return nil
}

func (c *Composer) resolve(ctx context.Context, doc Document, r Relation, viewerID int64) (any, error) {
	key := doc[r.local()]
	if key == nil {
		return zeroOf(r.Kind), nil
	}
	switch r.Kind {
	case KindCount:
		n, err := c.src.Count(ctx, r.From, r.Where.And(Eq(r.ForeignField, key)))
		if err != nil {
			return nil, upstream(err, "count %s for %s", r.From, r.As)
		}
		return n, nil
	case KindFlag:
		if viewerID == Anonymous {
			return false, nil
		}
		ok, err := c.src.Exists(ctx, r.From, r.Where.And(Eq(r.ForeignField, key), Eq(r.ActorField, viewerID)))
		if err != nil {
			return nil, upstream(err, "check %s for %s", r.From, r.As)
		}
		return ok, nil
	case KindFirst:
		f := r.Where.And(Eq(r.ForeignField, key))
		docs, err := c.src.Find(ctx, r.From, f, FindOptions{Sort: r.Sort, Limit: 2})
		if err != nil {
			return nil, upstream(err, "find %s for %s", r.From, r.As)
		}
		if len(docs) == 0 {
			return nil, nil
		}
		if len(docs) > 1 && len(r.Sort) == 0 {
			c.onAnomaly(ctx, r.From, f, len(docs))
		}
		sub := cloneDoc(docs[0])
		if err := c.enrich(ctx, sub, r.Relations, viewerID); err != nil {
			return nil, err
		}
		return sub, nil
	case KindMany:
		docs, err := c.many(ctx, key, r)
		if err != nil {
			return nil, err
		}
		if len(r.Relations) == 0 {
			return docs, nil
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)
		for _, sub := range docs {
			g.Go(func() error {
				return c.enrich(gctx, sub, r.Relations, viewerID)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return docs, nil
	}
	return nil, errors.Errorf("relation %s: kind %s is not fetched", r.As, r.Kind)
}

func (c *Composer) many(ctx context.Context, key any, r Relation) ([]Document, error) {
	if r.Via == nil {
		docs, err := c.src.Find(ctx, r.From, r.Where.And(Eq(r.ForeignField, key)), FindOptions{Sort: r.Sort})
		if err != nil {
			return nil, upstream(err, "find %s for %s", r.From, r.As)
		}
		out := make([]Document, len(docs))
		for i := range docs {
			out[i] = cloneDoc(docs[i])
		}
		return out, nil
	}

	links, err := c.src.Find(ctx, r.Via.Collection, Filter{Eq(r.Via.LocalField, key)}, FindOptions{Sort: r.Via.Sort})
	if err != nil {
		return nil, upstream(err, "find %s for %s", r.Via.Collection, r.As)
	}
	if len(links) == 0 {
		return []Document{}, nil
	}
	targets := make([]any, 0, len(links))
	for _, l := range links {
		if t := l[r.Via.TargetField]; t != nil {
			targets = append(targets, t)
		}
	}
	related, err := c.src.Find(ctx, r.From, r.Where.And(In(r.ForeignField, targets...)), FindOptions{})
	if err != nil {
		return nil, upstream(err, "find %s for %s", r.From, r.As)
	}
	byKey := make(map[string]Document, len(related))
	for _, d := range related {
		byKey[keyOf(d[r.ForeignField])] = d
	}
	// Dangling join rows are skipped.
	out := make([]Document, 0, len(targets))
	for _, t := range targets {
		if d, ok := byKey[keyOf(t)]; ok {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func zeroOf(k Kind) any {
	switch k {
	case KindCount:
		return int64(0)
	case KindFlag:
		return false
	case KindMany:
		return []Document{}
	}
	return nil
}

// upstream marks a storage failure. Errors that already carry a code pass
// through unchanged.
func upstream(err error, format string, args ...any) error {
	var e errno.ErrNo
	if errors.As(err, &e) {
		return err
	}
	return errors.WithMessagef(errno.UpstreamErr.WithCause(err), format, args...)
}
