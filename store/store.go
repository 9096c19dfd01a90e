// Package store writes snapshots of computed workbook values to a SQLite
// database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/midbel/sheetcalc/grid"
	"github.com/midbel/sheetcalc/value"

	_ "modernc.org/sqlite"
)

const schema = `
create table if not exists cells (
	sheet text not null,
	address text not null,
	kind text not null,
	value text,
	formula text,
	primary key (sheet, address)
)`

const insertCell = `insert or replace into cells(sheet, address, kind, value, formula) values(?, ?, ?, ?, ?)`

var ErrClosed = errors.New("store closed")

// Row is a cell as it is saved in the snapshot.
type Row struct {
	Sheet   string
	Address string
	Kind    string
	Value   string
	Formula string
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and makes sure the cells
// table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Encoder gives a grid.Encoder saving every non blank cell of a sheet in a
// single transaction. Rows previously saved for the sheet are replaced.
func (s *Store) Encoder(ctx context.Context) grid.Encoder {
	return &sqlEncoder{
		ctx:   ctx,
		store: s,
	}
}

// Rows gives the saved cells of a sheet ordered by their insertion.
func (s *Store) Rows(ctx context.Context, sheet string) ([]Row, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rs, err := s.db.QueryContext(ctx, `select sheet, address, kind, value, formula from cells where sheet=? order by rowid`, sheet)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var list []Row
	for rs.Next() {
		var (
			r       Row
			formula sql.NullString
		)
		if err := rs.Scan(&r.Sheet, &r.Address, &r.Kind, &r.Value, &formula); err != nil {
			return nil, err
		}
		r.Formula = formula.String
		list = append(list, r)
	}
	return list, rs.Err()
}

type sqlEncoder struct {
	ctx   context.Context
	store *Store
}

func (e *sqlEncoder) EncodeSheet(view grid.View) error {
	if e.store.db == nil {
		return ErrClosed
	}
	tx, err := e.store.db.BeginTx(e.ctx, nil)
	if err != nil {
		return err
	}
	if err := e.encode(tx, view); err != nil {
		tx.Rollback()
		return fmt.Errorf("%s: %w", view.Name(), err)
	}
	return tx.Commit()
}

func (e *sqlEncoder) encode(tx *sql.Tx, view grid.View) error {
	if _, err := tx.ExecContext(e.ctx, `delete from cells where sheet=?`, view.Name()); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(e.ctx, insertCell)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for c := range view.Cells() {
		var formula sql.NullString
		if c.IsFormula() {
			formula.String, formula.Valid = c.Formula, true
		}
		pos := c.Position
		pos.Sheet = ""
		_, err := stmt.ExecContext(e.ctx, view.Name(), pos.String(), kindName(c.Value), c.Value.String(), formula)
		if err != nil {
			return err
		}
	}
	return nil
}

func kindName(v value.ScalarValue) string {
	switch v.Kind() {
	case value.KindBlank:
		return "blank"
	case value.KindLogical:
		return "logical"
	case value.KindNumber:
		return "number"
	case value.KindText:
		return "text"
	case value.KindError:
		return "error"
	default:
		return "unknown"
	}
}
