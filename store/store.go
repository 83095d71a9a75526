// Package store 求解记录的 SQLite 持久化
package store

import (
	"biotsavart/maths"
	"biotsavart/solver/debug"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("run not found")

// Run 一次求解记录
type Run struct {
	ID         string        `json:"id"`
	Created    time.Time     `json:"created"`
	Wire       string        `json:"wire"`
	Current    maths.Phasor  `json:"current"`
	Turns      int           `json:"turns"`
	Vertices   int           `json:"vertices"`
	Mu0        float64       `json:"mu0"`
	Degenerate int           `json:"degenerate"`
	Count      int           `json:"count"`
	Points     []maths.Vec3  `json:"points,omitempty"`
	Fields     []maths.Field `json:"fields,omitempty"`
	Magnitude  []float64     `json:"magnitude,omitempty"`
}

// NewRun 由调试记录生成求解记录
func NewRun(record *debug.Record, mu0 float64) *Run {
	return &Run{
		Wire:       record.Wire,
		Current:    record.Current,
		Turns:      record.Turns,
		Vertices:   record.Vertices,
		Mu0:        mu0,
		Degenerate: len(record.DegenerateList),
		Count:      len(record.Points),
		Points:     record.Points,
		Fields:     record.Fields,
		Magnitude:  record.Magnitude,
	}
}

// Record 转换为调试记录（用于重新绘图）
func (r *Run) Record() *debug.Record {
	return &debug.Record{
		Wire:      r.Wire,
		Current:   r.Current,
		Turns:     r.Turns,
		Vertices:  r.Vertices,
		Points:    r.Points,
		Fields:    r.Fields,
		Magnitude: r.Magnitude,
	}
}

type runRow struct {
	ID         string  `db:"id"`
	Created    int64   `db:"created"`
	Wire       string  `db:"wire"`
	CurrentRe  float64 `db:"current_re"`
	CurrentIm  float64 `db:"current_im"`
	Turns      int     `db:"turns"`
	Vertices   int     `db:"vertices"`
	Mu0        float64 `db:"mu0"`
	Degenerate int     `db:"degenerate"`
	Count      int     `db:"count"`
}

func (row runRow) run() *Run {
	return &Run{
		ID:         row.ID,
		Created:    time.Unix(0, row.Created).UTC(),
		Wire:       row.Wire,
		Current:    maths.NewPhasor(row.CurrentRe, row.CurrentIm),
		Turns:      row.Turns,
		Vertices:   row.Vertices,
		Mu0:        row.Mu0,
		Degenerate: row.Degenerate,
		Count:      row.Count,
	}
}

type fieldRow struct {
	Idx       int     `db:"idx"`
	X         float64 `db:"x"`
	Y         float64 `db:"y"`
	Z         float64 `db:"z"`
	BxRe      float64 `db:"bx_re"`
	BxIm      float64 `db:"bx_im"`
	ByRe      float64 `db:"by_re"`
	ByIm      float64 `db:"by_im"`
	BzRe      float64 `db:"bz_re"`
	BzIm      float64 `db:"bz_im"`
	Magnitude float64 `db:"magnitude"`
}

// DB 求解记录数据库
type DB struct {
	conn *sqlx.DB
}

// Open 打开或创建数据库
func Open(path string) (*DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close 关闭连接
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created INTEGER NOT NULL,
		wire TEXT NOT NULL,
		current_re REAL NOT NULL,
		current_im REAL NOT NULL,
		turns INTEGER NOT NULL,
		vertices INTEGER NOT NULL,
		mu0 REAL NOT NULL,
		degenerate INTEGER NOT NULL,
		count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fields (
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		bx_re REAL NOT NULL,
		bx_im REAL NOT NULL,
		by_re REAL NOT NULL,
		by_im REAL NOT NULL,
		bz_re REAL NOT NULL,
		bz_im REAL NOT NULL,
		magnitude REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun 保存求解记录，ID 为空时自动生成
func (db *DB) SaveRun(ctx context.Context, run *Run) error {
	if len(run.Fields) != len(run.Points) || len(run.Magnitude) != len(run.Points) {
		return fmt.Errorf("save run: 数据长度不一致 points=%d fields=%d magnitude=%d",
			len(run.Points), len(run.Fields), len(run.Magnitude))
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Created.IsZero() {
		run.Created = time.Now().UTC()
	}
	run.Count = len(run.Points)

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs
		(id, created, wire, current_re, current_im, turns, vertices, mu0, degenerate, count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Created.UnixNano(), run.Wire, run.Current.Re, run.Current.Im,
		run.Turns, run.Vertices, run.Mu0, run.Degenerate, run.Count,
	); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO fields
		(run_id, idx, x, y, z, bx_re, bx_im, by_re, by_im, bz_re, bz_im, magnitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range run.Points {
		f := run.Fields[i]
		if _, err := stmt.ExecContext(ctx, run.ID, i, p.X, p.Y, p.Z,
			f.X.Re, f.X.Im, f.Y.Re, f.Y.Im, f.Z.Re, f.Z.Im, run.Magnitude[i],
		); err != nil {
			return fmt.Errorf("save field %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("run saved", "id", run.ID, "points", run.Count)
	return nil
}

// Run 读取完整求解记录
func (db *DB) Run(ctx context.Context, id string) (*Run, error) {
	var row runRow
	err := db.conn.GetContext(ctx, &row, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var rows []fieldRow
	if err := db.conn.SelectContext(ctx, &rows,
		`SELECT idx, x, y, z, bx_re, bx_im, by_re, by_im, bz_re, bz_im, magnitude
		FROM fields WHERE run_id = ? ORDER BY idx`, id,
	); err != nil {
		return nil, fmt.Errorf("get fields: %w", err)
	}

	run := row.run()
	run.Points = make([]maths.Vec3, len(rows))
	run.Fields = make([]maths.Field, len(rows))
	run.Magnitude = make([]float64, len(rows))
	for i, f := range rows {
		run.Points[i] = maths.NewVec3(f.X, f.Y, f.Z)
		run.Fields[i] = maths.Field{
			X: maths.NewPhasor(f.BxRe, f.BxIm),
			Y: maths.NewPhasor(f.ByRe, f.ByIm),
			Z: maths.NewPhasor(f.BzRe, f.BzIm),
		}
		run.Magnitude[i] = f.Magnitude
	}
	return run, nil
}

// Runs 列出求解记录摘要（不含逐点数据），按时间倒序
func (db *DB) Runs(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []runRow
	if err := db.conn.SelectContext(ctx, &rows,
		"SELECT * FROM runs ORDER BY created DESC LIMIT ?", limit,
	); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs := make([]*Run, len(rows))
	for i, row := range rows {
		runs[i] = row.run()
	}
	return runs, nil
}

// DeleteRun 删除求解记录
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM fields WHERE run_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
