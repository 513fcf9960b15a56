package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"VideoTube.com/pkg/compose"
	"VideoTube.com/pkg/errno"
)

type collection struct {
	schema *schema.Schema
	typ    reflect.Type
}

// Source serves compose lookups from gorm models. Each collection is the
// table of a registered model and documents are keyed by column name.
type Source struct {
	db          *gorm.DB
	mu          sync.RWMutex
	collections map[string]collection
}

func NewSource(db *gorm.DB, models ...any) (*Source, error) {
	s := &Source{db: db, collections: make(map[string]collection)}
	for _, m := range models {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Source) Register(model any) error {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(model); err != nil {
		return errors.Wrapf(err, "parse model %T", model)
	}
	typ := reflect.TypeOf(model)
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	s.mu.Lock()
	s.collections[stmt.Schema.Table] = collection{schema: stmt.Schema, typ: typ}
	s.mu.Unlock()
	return nil
}

func (s *Source) Find(ctx context.Context, name string, filter compose.Filter, opts compose.FindOptions) ([]compose.Document, error) {
	c, tx, err := s.query(ctx, name, filter)
	if err != nil {
		return nil, err
	}
	for _, o := range opts.Sort {
		f, err := c.field(o.Field)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: f.DBName}, Desc: o.Direction != compose.Ascending})
	}
	if opts.Limit > 0 {
		tx = tx.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		tx = tx.Offset(opts.Offset)
	}

	rows := reflect.New(reflect.SliceOf(c.typ))
	if err := tx.Find(rows.Interface()).Error; err != nil {
		return nil, errors.Wrapf(err, "find %s", name)
	}
	slice := rows.Elem()
	out := make([]compose.Document, 0, slice.Len())
	for i := 0; i < slice.Len(); i++ {
		out = append(out, c.document(ctx, slice.Index(i)))
	}
	return out, nil
}

func (s *Source) Count(ctx context.Context, name string, filter compose.Filter) (int64, error) {
	_, tx, err := s.query(ctx, name, filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s", name)
	}
	return n, nil
}

func (s *Source) Exists(ctx context.Context, name string, filter compose.Filter) (bool, error) {
	_, tx, err := s.query(ctx, name, filter)
	if err != nil {
		return false, err
	}
	var hit int
	res := tx.Select("1").Limit(1).Scan(&hit)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "exists %s", name)
	}
	return res.RowsAffected > 0, nil
}

func (s *Source) query(ctx context.Context, name string, filter compose.Filter) (collection, *gorm.DB, error) {
	s.mu.RLock()
	c, ok := s.collections[name]
	s.mu.RUnlock()
	if !ok {
		return collection{}, nil, errno.ServiceErr.WithMessage(fmt.Sprintf("collection %s is not registered", name))
	}
	exprs, err := c.where(filter)
	if err != nil {
		return collection{}, nil, err
	}
	tx := s.db.WithContext(ctx).Model(reflect.New(c.typ).Interface())
	if len(exprs) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}
	return c, tx, nil
}

func (c collection) field(name string) (*schema.Field, error) {
	f := c.schema.LookUpField(name)
	if f == nil || f.DBName == "" {
		return nil, errno.ParamErr.WithMessage(fmt.Sprintf("unknown field %s on %s", name, c.schema.Table))
	}
	return f, nil
}

func (c collection) where(filter compose.Filter) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(filter))
	for _, cond := range filter {
		switch cond.Op {
		case compose.OpEq:
			f, err := c.field(cond.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, clause.Eq{Column: clause.Column{Name: f.DBName}, Value: cond.Value})
		case compose.OpIn:
			f, err := c.field(cond.Field)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, clause.IN{Column: clause.Column{Name: f.DBName}, Values: cond.Values})
		case compose.OpMatch:
			pattern := "%" + escapeLike(fmt.Sprint(cond.Value)) + "%"
			ors := make([]clause.Expression, 0, len(cond.Fields))
			for _, name := range cond.Fields {
				f, err := c.field(name)
				if err != nil {
					return nil, err
				}
				ors = append(ors, clause.Like{Column: clause.Column{Name: f.DBName}, Value: pattern})
			}
			exprs = append(exprs, clause.Or(ors...))
		default:
			return nil, errno.ParamErr.WithMessage(fmt.Sprintf("unknown filter operator %d", cond.Op))
		}
	}
	return exprs, nil
}

func (c collection) document(ctx context.Context, rv reflect.Value) compose.Document {
	doc := make(compose.Document, len(c.schema.Fields))
	for _, f := range c.schema.Fields {
		if f.DBName == "" {
			continue
		}
		v, _ := f.ValueOf(ctx, rv)
		doc[f.DBName] = v
	}
	return doc
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
