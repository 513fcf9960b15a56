package compose

import (
	"context"

	"golang.org/x/sync/errgroup"

	"VideoTube.com/pkg/errno"
)

type PageRequest struct {
	Number int
	Size   int
}

func NewPageRequest(number, size int) (PageRequest, error) {
	if number < 1 || size < 1 {
		return PageRequest{}, errno.ParamErr.WithMessage("page and limit must be positive")
	}
	return PageRequest{Number: number, Size: size}, nil
}

func (r PageRequest) offset() int {
	return (r.Number - 1) * r.Size
}

type Page struct {
	Items       []Document `json:"items"`
	TotalItems  int64      `json:"total_items"`
	TotalPages  int64      `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
	PageSize    int        `json:"page_size"`
	HasNextPage bool       `json:"has_next_page"`
	HasPrevPage bool       `json:"has_prev_page"`
}

func totalPages(total int64, size int) int64 {
	if total <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

// ComposePage counts the documents selected by filter, reads the requested
// page in order and composes every item with p. Items with equal sort keys
// are ordered by id in the same direction.
func (c *Composer) ComposePage(ctx context.Context, collection string, filter Filter, order Sort, req PageRequest, viewerID int64, p *Profile) (*Page, error) {
	if p == nil {
		return nil, errno.ServiceErr.WithMessage("compose: nil profile")
	}
	if req.Number < 1 || req.Size < 1 {
		return nil, errno.ParamErr.WithMessage("page and limit must be positive")
	}
	f, err := validateFilter(filter, false)
	if err != nil {
		return nil, err
	}
	if order.Field == "" {
		order = DefaultSort
	}
	if order.Direction == 0 {
		order.Direction = Descending
	}

	total, err := c.src.Count(ctx, collection, f)
	if err != nil {
		return nil, upstream(err, "count %s", collection)
	}
	page := &Page{
		Items:       []Document{},
		TotalItems:  total,
		TotalPages:  totalPages(total, req.Size),
		CurrentPage: req.Number,
		PageSize:    req.Size,
		HasPrevPage: req.Number > 1,
	}
	page.HasNextPage = int64(req.Number) < page.TotalPages
	if int64(req.Number) > page.TotalPages {
		return page, nil
	}

	sorts := []Sort{order}
	if order.Field != "id" {
		sorts = append(sorts, Sort{Field: "id", Direction: order.Direction})
	}
	docs, err := c.src.Find(ctx, collection, f, FindOptions{Sort: sorts, Limit: req.Size, Offset: req.offset()})
	if err != nil {
		return nil, upstream(err, "find %s", collection)
	}

	items := make([]Document, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range docs {
		g.Go(func() error {
			doc := cloneDoc(docs[i])
			if err := c.enrich(gctx, doc, p.Relations, viewerID); err != nil {
				return err
			}
			items[i] = p.Project.Apply(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	page.Items = items
	return page, nil
}
