package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/stock-screener/internal/db"
	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/resilience"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
	// Retry governs the initial ping. Zero values use resilience defaults.
	Retry resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	var retry resilience.RetryConfig
	if poolCfg != nil {
		retry = poolCfg.Retry
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("postgres.ping")
	}
	if err := resilience.Do(ctx, retry, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id         BIGSERIAL PRIMARY KEY,
	symbol     TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS periods (
	company_id  BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	year        INTEGER NOT NULL,
	quarter     INTEGER NOT NULL DEFAULT 0,
	source      TEXT NOT NULL DEFAULT '',
	is_forecast BOOLEAN NOT NULL DEFAULT false,
	PRIMARY KEY (company_id, year, quarter)
);

CREATE TABLE IF NOT EXISTS metric_values (
	company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	code       TEXT NOT NULL,
	period_key TEXT NOT NULL,
	value      DOUBLE PRECISION,
	PRIMARY KEY (company_id, code, period_key)
);

CREATE TABLE IF NOT EXISTS trading_snapshots (
	company_id         BIGINT PRIMARY KEY REFERENCES companies(id) ON DELETE CASCADE,
	last_price         DOUBLE PRECISION NOT NULL DEFAULT 0,
	outstanding_shares DOUBLE PRECISION NOT NULL DEFAULT 0,
	market_cap         DOUBLE PRECISION NOT NULL DEFAULT 0,
	pe                 DOUBLE PRECISION NOT NULL DEFAULT 0,
	eps                DOUBLE PRECISION NOT NULL DEFAULT 0,
	max_52w            DOUBLE PRECISION NOT NULL DEFAULT 0,
	min_52w            DOUBLE PRECISION NOT NULL DEFAULT 0,
	trading_date       DATE,
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stock_analysis (
	company_id     BIGINT PRIMARY KEY REFERENCES companies(id) ON DELETE CASCADE,
	pe_assumptions JSONB,
	inputs         JSONB,
	shares         JSONB,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_metric_values_company ON metric_values(company_id);
CREATE INDEX IF NOT EXISTS idx_periods_company ON periods(company_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertCompany(ctx context.Context, c model.Company) (*model.Company, error) {
	c.Symbol = normalizeSymbol(c.Symbol)
	if c.Symbol == "" {
		return nil, eris.New("postgres: upsert company: empty symbol")
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO companies (symbol, name) VALUES ($1, $2)
		 ON CONFLICT (symbol) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), companies.name),
			updated_at = now()
		 RETURNING id, name`,
		c.Symbol, c.Name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert company %s", c.Symbol)
	}
	return &c, nil
}

func (s *PostgresStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT symbol FROM companies ORDER BY symbol`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list symbols")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, eris.Wrap(err, "postgres: scan symbol")
		}
		out = append(out, sym)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list symbols iterate")
}

// SaveMetrics bulk upserts periods and metric values through COPY-staged
// temp tables.
func (s *PostgresStore) SaveMetrics(ctx context.Context, symbol string, periods []model.PeriodRecord, metrics model.MetricValues) (int, error) {
	if err := validateMetrics(metrics); err != nil {
		return 0, err
	}
	id, err := s.companyID(ctx, symbol)
	if err != nil {
		return 0, err
	}

	periodRows := make([][]any, 0, len(periods))
	for _, p := range periods {
		periodRows = append(periodRows, []any{id, p.Year, p.Quarter, p.Source, p.IsForecast})
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "periods",
		Columns:      []string{"company_id", "year", "quarter", "source", "is_forecast"},
		ConflictKeys: []string{"company_id", "year", "quarter"},
	}, periodRows); err != nil {
		return 0, eris.Wrapf(err, "postgres: save periods %s", symbol)
	}

	flat := metricRows(metrics)
	valueRows := make([][]any, 0, len(flat))
	for _, r := range flat {
		valueRows = append(valueRows, []any{id, r[0], r[1], r[2]})
	}
	if _, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "metric_values",
		Columns:      []string{"company_id", "code", "period_key", "value"},
		ConflictKeys: []string{"company_id", "code", "period_key"},
	}, valueRows); err != nil {
		return 0, eris.Wrapf(err, "postgres: save metrics %s", symbol)
	}
	return len(valueRows), nil
}

func (s *PostgresStore) SaveTradingSnapshot(ctx context.Context, symbol string, t model.TradingSnapshot) error {
	id, err := s.companyID(ctx, symbol)
	if err != nil {
		return err
	}
	var tradingDate *time.Time
	if !t.TradingDate.IsZero() {
		d := t.TradingDate.UTC()
		tradingDate = &d
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO trading_snapshots
			(company_id, last_price, outstanding_shares, market_cap, pe, eps, max_52w, min_52w, trading_date, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (company_id) DO UPDATE SET
			last_price = EXCLUDED.last_price,
			outstanding_shares = EXCLUDED.outstanding_shares,
			market_cap = EXCLUDED.market_cap,
			pe = EXCLUDED.pe,
			eps = EXCLUDED.eps,
			max_52w = EXCLUDED.max_52w,
			min_52w = EXCLUDED.min_52w,
			trading_date = EXCLUDED.trading_date,
			updated_at = now()`,
		id, t.LastPrice, t.OutstandingShares, t.MarketCap, t.PE, t.EPS, t.Max52W, t.Min52W, tradingDate,
	)
	return eris.Wrapf(err, "postgres: save trading snapshot %s", symbol)
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, symbol string, a model.Analysis) error {
	id, err := s.companyID(ctx, symbol)
	if err != nil {
		return err
	}
	pe, inputs, shares, err := marshalAnalysis(a)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal analysis")
	}
	updated := a.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO stock_analysis (company_id, pe_assumptions, inputs, shares, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (company_id) DO UPDATE SET
			pe_assumptions = EXCLUDED.pe_assumptions,
			inputs = EXCLUDED.inputs,
			shares = EXCLUDED.shares,
			updated_at = EXCLUDED.updated_at`,
		id, pe, inputs, shares, updated,
	)
	return eris.Wrapf(err, "postgres: save analysis %s", symbol)
}

func (s *PostgresStore) LoadStock(ctx context.Context, symbol string) (*model.StockSnapshot, error) {
	var c model.Company
	err := s.pool.QueryRow(ctx,
		`SELECT id, symbol, name FROM companies WHERE symbol = $1`,
		normalizeSymbol(symbol),
	).Scan(&c.ID, &c.Symbol, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: load stock %s", symbol)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load stock %s", symbol)
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

func (s *PostgresStore) loadPeriods(ctx context.Context, snap *model.StockSnapshot) error {
	rows, err := s.pool.Query(ctx,
		`SELECT year, quarter, source, is_forecast FROM periods WHERE company_id = $1 ORDER BY year, quarter`,
		snap.Company.ID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: load periods")
	}
	defer rows.Close()

	for rows.Next() {
		var p model.PeriodRecord
		if err := rows.Scan(&p.Year, &p.Quarter, &p.Source, &p.IsForecast); err != nil {
			return eris.Wrap(err, "postgres: scan period")
		}
		snap.Periods = append(snap.Periods, p)
	}
	return eris.Wrap(rows.Err(), "postgres: load periods iterate")
}

func (s *PostgresStore) loadMetrics(ctx context.Context, snap *model.StockSnapshot) error {
	rows, err := s.pool.Query(ctx,
		`SELECT code, period_key, value FROM metric_values WHERE company_id = $1`,
		snap.Company.ID,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: load metrics")
	}
	defer rows.Close()

	for rows.Next() {
		var code, key string
		var v *float64
		if err := rows.Scan(&code, &key, &v); err != nil {
			return eris.Wrap(err, "postgres: scan metric")
		}
		splitMetrics(snap, code, key, v)
	}
	return eris.Wrap(rows.Err(), "postgres: load metrics iterate")
}

func (s *PostgresStore) loadTrading(ctx context.Context, companyID int64) (*model.TradingSnapshot, error) {
	var t model.TradingSnapshot
	var tradingDate *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT last_price, outstanding_shares, market_cap, pe, eps, max_52w, min_52w, trading_date
		 FROM trading_snapshots WHERE company_id = $1`,
		companyID,
	).Scan(&t.LastPrice, &t.OutstandingShares, &t.MarketCap, &t.PE, &t.EPS, &t.Max52W, &t.Min52W, &tradingDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load trading snapshot")
	}
	if tradingDate != nil {
		t.TradingDate = tradingDate.UTC()
	}
	return &t, nil
}

func (s *PostgresStore) loadAnalysis(ctx context.Context, companyID int64) (*model.Analysis, error) {
	var pe, inputs, shares []byte
	var a model.Analysis
	err := s.pool.QueryRow(ctx,
		`SELECT pe_assumptions, inputs, shares, updated_at FROM stock_analysis WHERE company_id = $1`,
		companyID,
	).Scan(&pe, &inputs, &shares, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load analysis")
	}
	if err := unmarshalAnalysis(&a, pe, inputs, shares); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal analysis")
	}
	return &a, nil
}

func (s *PostgresStore) companyID(ctx context.Context, symbol string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM companies WHERE symbol = $1`, normalizeSymbol(symbol),
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, eris.Wrapf(ErrNotFound, "postgres: company %s", symbol)
	}
	return id, eris.Wrapf(err, "postgres: company %s", symbol)
}
