// Package search keeps videos in an Elasticsearch index for full text
// queries over title and description.
package search

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"

	"VideoTube.com/pkg/deps"
)

const mapping = `{
	"mappings": {
		"properties": {
			"id":           {"type": "long"},
			"owner_id":     {"type": "long"},
			"title":        {"type": "text"},
			"description":  {"type": "text"},
			"is_published": {"type": "boolean"},
			"created_at":   {"type": "long"}
		}
	}
}`

type Elastic struct {
	client *elastic.Client
	index  string
}

var _ deps.Searcher = (*Elastic)(nil)

// NewElastic connects to addr and creates index when it is missing.
func NewElastic(ctx context.Context, addr, index string) (*Elastic, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(addr),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect elasticsearch %s", addr)
	}
	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "check index %s", index)
	}
	if !exists {
		if _, err = client.CreateIndex(index).BodyString(mapping).Do(ctx); err != nil {
			return nil, errors.Wrapf(err, "create index %s", index)
		}
		hlog.Infof("created search index %s", index)
	}
	return &Elastic{client: client, index: index}, nil
}

func (e *Elastic) Index(ctx context.Context, doc deps.VideoDoc) error {
	_, err := e.client.Index().Index(e.index).Id(strconv.FormatInt(doc.ID, 10)).BodyJson(doc).Do(ctx)
	return errors.Wrapf(err, "index video %d", doc.ID)
}

func (e *Elastic) Delete(ctx context.Context, id int64) error {
	_, err := e.client.Delete().Index(e.index).Id(strconv.FormatInt(id, 10)).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return errors.Wrapf(err, "delete video %d from index", id)
}

// SearchIDs returns the ids of the best matching videos, best first.
func (e *Elastic) SearchIDs(ctx context.Context, query string, limit int) ([]int64, error) {
	q := elastic.NewMultiMatchQuery(query, "title^2", "description").Fuzziness("AUTO")
	res, err := e.client.Search().Index(e.index).Query(q).Size(limit).FetchSource(false).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", query)
	}
	return hitIDs(res.Hits)
}

func hitIDs(hits *elastic.SearchHits) ([]int64, error) {
	if hits == nil {
		return nil, nil
	}
	ids := make([]int64, 0, len(hits.Hits))
	for _, hit := range hits.Hits {
		id, err := strconv.ParseInt(hit.Id, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "hit id %q", hit.Id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
