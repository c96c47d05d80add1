package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
)

const dialectSQLite = "sqlite3"

// Field selects which catalog column an identifier is matched against.
type Field int

const (
	FieldAny Field = iota
	FieldID
	FieldTitle
	FieldCategory
	FieldPublisher
)

func (f Field) String() string {
	switch f {
	case FieldID:
		return "id"
	case FieldTitle:
		return "title"
	case FieldCategory:
		return "category"
	case FieldPublisher:
		return "publisher"
	default:
		return "any"
	}
}

// ResolveBook maps a free-form identifier to a single catalog row. The
// identifier is tried as a numeric id and as an exact title, category, and
// publisher in one disjunctive query; when several rows match the lowest id
// wins. Returns ErrNotFound when nothing matches.
func (d *Database) ResolveBook(identifier string) (*Book, error) {
	exprs := []goqu.Expression{
		goqu.C("title").Eq(identifier),
		goqu.C("category").Eq(identifier),
		goqu.C("publisher").Eq(identifier),
	}
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		exprs = append([]goqu.Expression{goqu.C("id").Eq(id)}, exprs...)
	}
	return d.resolveOne(goqu.Or(exprs...))
}

// ResolveBookStrict matches by numeric id or exact title only. Delete goes
// through it so a category or publisher collision cannot remove the wrong
// row.
func (d *Database) ResolveBookStrict(identifier string) (*Book, error) {
	exprs := []goqu.Expression{goqu.C("title").Eq(identifier)}
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		exprs = append([]goqu.Expression{goqu.C("id").Eq(id)}, exprs...)
	}
	return d.resolveOne(goqu.Or(exprs...))
}

// ResolveBookBy matches against a single caller-chosen column. With
// preferAvailable set, category and publisher lookups pick the first row that
// still has copies; id and title lookups are always exact regardless.
func (d *Database) ResolveBookBy(field Field, value string, preferAvailable bool) (*Book, error) {
	var cond goqu.Expression
	switch field {
	case FieldID:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, ErrNotFound
		}
		cond = goqu.C("id").Eq(id)
	case FieldTitle:
		cond = goqu.C("title").Eq(value)
	case FieldCategory, FieldPublisher:
		cond = goqu.C(field.String()).Eq(value)
		if preferAvailable {
			cond = goqu.And(cond, goqu.C("available_copies").Gt(0))
		}
	default:
		return d.ResolveBook(value)
	}
	return d.resolveOne(cond)
}

func (d *Database) resolveOne(cond goqu.Expression) (*Book, error) {
	query, args, err := goqu.Dialect(dialectSQLite).
		From("book").
		Select("id", "title", "author", "price", "available_copies", "category", "publisher").
		Where(cond).
		Order(goqu.I("id").Asc()).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build lookup query: %w", err)
	}

	book, err := scanBook(d.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return book, err
}
