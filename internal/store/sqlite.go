package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/resilience"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	retry resilience.RetryConfig
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, retry: resilience.DefaultRetryConfig()}, nil
}

// WithRetry replaces the retry policy used for writes.
func (s *SQLiteStore) WithRetry(cfg resilience.RetryConfig) *SQLiteStore {
	s.retry = cfg
	return s
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol     TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS periods (
	company_id  INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	year        INTEGER NOT NULL,
	quarter     INTEGER NOT NULL DEFAULT 0,
	source      TEXT NOT NULL DEFAULT '',
	is_forecast INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (company_id, year, quarter)
);

CREATE TABLE IF NOT EXISTS metric_values (
	company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	code       TEXT NOT NULL,
	period_key TEXT NOT NULL,
	value      REAL,
	PRIMARY KEY (company_id, code, period_key)
);

CREATE TABLE IF NOT EXISTS trading_snapshots (
	company_id         INTEGER PRIMARY KEY REFERENCES companies(id) ON DELETE CASCADE,
	last_price         REAL NOT NULL DEFAULT 0,
	outstanding_shares REAL NOT NULL DEFAULT 0,
	market_cap         REAL NOT NULL DEFAULT 0,
	pe                 REAL NOT NULL DEFAULT 0,
	eps                REAL NOT NULL DEFAULT 0,
	max_52w            REAL NOT NULL DEFAULT 0,
	min_52w            REAL NOT NULL DEFAULT 0,
	trading_date       DATETIME,
	updated_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stock_analysis (
	company_id     INTEGER PRIMARY KEY REFERENCES companies(id) ON DELETE CASCADE,
	pe_assumptions TEXT,
	inputs         TEXT,
	shares         TEXT,
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_metric_values_company ON metric_values(company_id);
CREATE INDEX IF NOT EXISTS idx_periods_company ON periods(company_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertCompany(ctx context.Context, c model.Company) (*model.Company, error) {
	c.Symbol = normalizeSymbol(c.Symbol)
	if c.Symbol == "" {
		return nil, eris.New("sqlite: upsert company: empty symbol")
	}
	now := time.Now().UTC()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO companies (symbol, name, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET
			name = COALESCE(NULLIF(excluded.name, ''), companies.name),
			updated_at = excluded.updated_at
		 RETURNING id, name`,
		c.Symbol, c.Name, now, now,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert company %s", c.Symbol)
	}
	return &c, nil
}

func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol FROM companies ORDER BY symbol`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list symbols")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan symbol")
		}
		out = append(out, sym)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list symbols iterate")
}

func (s *SQLiteStore) SaveMetrics(ctx context.Context, symbol string, periods []model.PeriodRecord, metrics model.MetricValues) (int, error) {
	if err := validateMetrics(metrics); err != nil {
		return 0, err
	}
	id, err := s.companyID(ctx, symbol)
	if err != nil {
		return 0, err
	}

	return resilience.DoVal(ctx, s.retryFor("sqlite.save_metrics"), func(ctx context.Context) (int, error) {
		return s.saveMetricsTx(ctx, id, periods, metrics)
	})
}

func (s *SQLiteStore) saveMetricsTx(ctx context.Context, id int64, periods []model.PeriodRecord, metrics model.MetricValues) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin save metrics")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, p := range periods {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO periods (company_id, year, quarter, source, is_forecast) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(company_id, year, quarter) DO UPDATE SET
				source = excluded.source,
				is_forecast = excluded.is_forecast`,
			id, p.Year, p.Quarter, p.Source, p.IsForecast,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert period %s", p.Key())
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO metric_values (company_id, code, period_key, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(company_id, code, period_key) DO UPDATE SET value = excluded.value`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare metric upsert")
	}
	defer stmt.Close()

	rows := metricRows(metrics)
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, id, r[0], r[1], r[2]); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert metric %v %v", r[0], r[1])
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit save metrics")
	}
	return len(rows), nil
}

func (s *SQLiteStore) SaveTradingSnapshot(ctx context.Context, symbol string, t model.TradingSnapshot) error {
	id, err := s.companyID(ctx, symbol)
	if err != nil {
		return err
	}
	var tradingDate any
	if !t.TradingDate.IsZero() {
		tradingDate = t.TradingDate.UTC()
	}

	err = s.exec(ctx, "sqlite.save_trading",
		`INSERT INTO trading_snapshots
			(company_id, last_price, outstanding_shares, market_cap, pe, eps, max_52w, min_52w, trading_date, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(company_id) DO UPDATE SET
			last_price = excluded.last_price,
			outstanding_shares = excluded.outstanding_shares,
			market_cap = excluded.market_cap,
			pe = excluded.pe,
			eps = excluded.eps,
			max_52w = excluded.max_52w,
			min_52w = excluded.min_52w,
			trading_date = excluded.trading_date,
			updated_at = excluded.updated_at`,
		id, t.LastPrice, t.OutstandingShares, t.MarketCap, t.PE, t.EPS, t.Max52W, t.Min52W, tradingDate, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save trading snapshot %s", symbol)
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, symbol string, a model.Analysis) error {
	id, err := s.companyID(ctx, symbol)
	if err != nil {
		return err
	}
	pe, inputs, shares, err := marshalAnalysis(a)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}
	updated := a.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	err = s.exec(ctx, "sqlite.save_analysis",
		`INSERT INTO stock_analysis (company_id, pe_assumptions, inputs, shares, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(company_id) DO UPDATE SET
			pe_assumptions = excluded.pe_assumptions,
			inputs = excluded.inputs,
			shares = excluded.shares,
			updated_at = excluded.updated_at`,
		id, nullString(pe), nullString(inputs), nullString(shares), updated.UTC(),
	)
	return eris.Wrapf(err, "sqlite: save analysis %s", symbol)
}

func (s *SQLiteStore) retryFor(op string) resilience.RetryConfig {
	cfg := s.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger(op)
	}
	return cfg
}

// exec runs a single write statement, retrying while the database is busy.
func (s *SQLiteStore) exec(ctx context.Context, op, query string, args ...any) error {
	return resilience.Do(ctx, s.retryFor(op), func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func (s *SQLiteStore) LoadStock(ctx context.Context, symbol string) (*model.StockSnapshot, error) {
	var c model.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, name FROM companies WHERE symbol = ?`,
		normalizeSymbol(symbol),
	).Scan(&c.ID, &c.Symbol, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: load stock %s", symbol)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load stock %s", symbol)
	}
	snap := newSnapshot(c)

	if err := s.loadPeriods(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadMetrics(ctx, snap); err != nil {
		return nil, err
	}
	if snap.Trading, err = s.loadTrading(ctx, c.ID); err != nil {
		return nil, err
	}
	if snap.Analysis, err = s.loadAnalysis(ctx, c.ID); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteStore) loadPeriods(ctx context.Context, snap *model.StockSnapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, quarter, source, is_forecast FROM periods WHERE company_id = ? ORDER BY year, quarter`,
		snap.Company.ID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: load periods")
	}
	defer rows.Close()

	for rows.Next() {
		var p model.PeriodRecord
		if err := rows.Scan(&p.Year, &p.Quarter, &p.Source, &p.IsForecast); err != nil {
			return eris.Wrap(err, "sqlite: scan period")
		}
		snap.Periods = append(snap.Periods, p)
	}
	return eris.Wrap(rows.Err(), "sqlite: load periods iterate")
}

func (s *SQLiteStore) loadMetrics(ctx context.Context, snap *model.StockSnapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, period_key, value FROM metric_values WHERE company_id = ?`,
		snap.Company.ID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: load metrics")
	}
	defer rows.Close()

	for rows.Next() {
		var code, key string
		var v sql.NullFloat64
		if err := rows.Scan(&code, &key, &v); err != nil {
			return eris.Wrap(err, "sqlite: scan metric")
		}
		var val *float64
		if v.Valid {
			val = model.Float(v.Float64)
		}
		splitMetrics(snap, code, key, val)
	}
	return eris.Wrap(rows.Err(), "sqlite: load metrics iterate")
}

func (s *SQLiteStore) loadTrading(ctx context.Context, companyID int64) (*model.TradingSnapshot, error) {
	var t model.TradingSnapshot
	var tradingDate sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT last_price, outstanding_shares, market_cap, pe, eps, max_52w, min_52w, trading_date
		 FROM trading_snapshots WHERE company_id = ?`,
		companyID,
	).Scan(&t.LastPrice, &t.OutstandingShares, &t.MarketCap, &t.PE, &t.EPS, &t.Max52W, &t.Min52W, &tradingDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load trading snapshot")
	}
	if tradingDate.Valid {
		t.TradingDate = tradingDate.Time.UTC()
	}
	return &t, nil
}

func (s *SQLiteStore) loadAnalysis(ctx context.Context, companyID int64) (*model.Analysis, error) {
	var pe, inputs, shares sql.NullString
	var a model.Analysis
	err := s.db.QueryRowContext(ctx,
		`SELECT pe_assumptions, inputs, shares, updated_at FROM stock_analysis WHERE company_id = ?`,
		companyID,
	).Scan(&pe, &inputs, &shares, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load analysis")
	}
	if err := unmarshalAnalysis(&a, []byte(pe.String), []byte(inputs.String), []byte(shares.String)); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func (s *SQLiteStore) companyID(ctx context.Context, symbol string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM companies WHERE symbol = ?`, normalizeSymbol(symbol),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, eris.Wrapf(ErrNotFound, "sqlite: company %s", symbol)
	}
	return id, eris.Wrapf(err, "sqlite: company %s", symbol)
}

// helpers

// marshalAnalysis encodes the JSON columns of stock_analysis. Empty fields
// encode as nil so they are stored as NULL.
func marshalAnalysis(a model.Analysis) (pe, inputs, shares []byte, err error) {
	if len(a.PEAssumptions) > 0 {
		if pe, err = json.Marshal(a.PEAssumptions); err != nil {
			return nil, nil, nil, err
		}
	}
	if a.Inputs != nil {
		if inputs, err = json.Marshal(a.Inputs); err != nil {
			return nil, nil, nil, err
		}
	}
	if len(a.Shares) > 0 {
		if shares, err = json.Marshal(a.Shares); err != nil {
			return nil, nil, nil, err
		}
	}
	return pe, inputs, shares, nil
}

func unmarshalAnalysis(a *model.Analysis, pe, inputs, shares []byte) error {
	if len(pe) > 0 {
		if err := json.Unmarshal(pe, &a.PEAssumptions); err != nil {
			return err
		}
	}
	if len(inputs) > 0 {
		a.Inputs = &model.Inputs{}
		if err := json.Unmarshal(inputs, a.Inputs); err != nil {
			return err
		}
	}
	if len(shares) > 0 {
		if err := json.Unmarshal(shares, &a.Shares); err != nil {
			return err
		}
	}
	return nil
}

func nullString(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
