// Package report turns stored stocks into workbooks and reads user edits
// back out of downloaded ones.
package report

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/stock-screener/internal/grid"
	"github.com/sells-group/stock-screener/internal/metric"
	"github.com/sells-group/stock-screener/internal/model"
	"github.com/sells-group/stock-screener/internal/sheet"
	"github.com/sells-group/stock-screener/internal/store"
)

var (
	// ErrInvalidAssumption marks P/E assumptions that cannot be saved.
	ErrInvalidAssumption = eris.New("report: invalid P/E assumption")
	// ErrBadUpload marks an uploaded file that is not a readable workbook.
	ErrBadUpload = eris.New("report: bad upload")
)

// Options configures workbook output.
type Options struct {
	SheetName     string
	ValuationRows int
	// Now is the build clock. Nil means time.Now.
	Now func() time.Time
}

// Service builds workbooks from a store.
type Service struct {
	store store.Store
	opts  Options
}

// New returns a Service reading from st.
func New(st store.Store, opts Options) *Service {
	if opts.SheetName == "" {
		opts.SheetName = "Model"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: st, opts: opts}
}

func (s *Service) sheetOptions() sheet.Options {
	now := s.opts.Now()
	return sheet.Options{
		CurrentYear:   now.Year(),
		Today:         now,
		ValuationRows: s.opts.ValuationRows,
	}
}

// Series loads symbol and assembles the series a build consumes.
func (s *Service) Series(ctx context.Context, symbol string) (*model.SeriesData, error) {
	snap, err := s.store.LoadStock(ctx, symbol)
	if err != nil {
		return nil, eris.Wrapf(err, "report: load %s", symbol)
	}
	return metric.Assemble(snap, ""), nil
}

// Render builds the workbook for symbol.
func (s *Service) Render(ctx context.Context, symbol string) (*grid.Workbook, *sheet.Result, error) {
	data, err := s.Series(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	wb, err := grid.NewWorkbook(s.opts.SheetName)
	if err != nil {
		return nil, nil, eris.Wrap(err, "report: new workbook")
	}
	res, err := sheet.Build(wb, data, s.sheetOptions())
	if err != nil {
		return nil, nil, eris.Wrapf(err, "report: build %s", symbol)
	}
	return wb, res, nil
}

// WriteFile renders symbol into dir/<SYMBOL>.xlsx and returns the path.
func (s *Service) WriteFile(ctx context.Context, symbol, dir string) (string, error) {
	wb, res, err := s.Render(ctx, symbol)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "report: create %s", dir)
	}
	path := filepath.Join(dir, FileName(symbol))
	if err := wb.Save(path); err != nil {
		return "", err
	}
	zap.L().Info("report: wrote workbook",
		zap.String("symbol", symbol),
		zap.String("variant", string(res.Variant)),
		zap.String("path", path),
	)
	return path, nil
}

// FileName is the workbook file name for symbol.
func FileName(symbol string) string {
	return model.NormalizeSymbol(symbol) + ".xlsx"
}

// BatchResult counts the outcome of WriteAll.
type BatchResult struct {
	Succeeded int64
	Failed    int64
	Paths     map[string]string
}

// WriteAll renders every symbol into dir with at most concurrency builds in
// flight. A failing symbol is logged and counted but does not stop the batch.
func (s *Service) WriteAll(ctx context.Context, symbols []string, dir string, concurrency int) (*BatchResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	paths := make([]string, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64
	for i, symbol := range symbols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := s.WriteFile(gctx, symbol, dir)
			if err != nil {
				failed.Add(1)
				zap.L().Error("report: build failed", zap.String("symbol", symbol), zap.Error(err))
				return nil
			}
			succeeded.Add(1)
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "report: batch")
	}

	res := &BatchResult{
		Succeeded: succeeded.Load(),
		Failed:    failed.Load(),
		Paths:     make(map[string]string),
	}
	for i, p := range paths {
		if p != "" {
			res.Paths[model.NormalizeSymbol(symbols[i])] = p
		}
	}
	zap.L().Info("report: batch complete",
		zap.Int64("succeeded", res.Succeeded),
		zap.Int64("failed", res.Failed),
	)
	return res, nil
}

// ReadEdits extracts the user-editable parts of a downloaded workbook for
// symbol: P/E scenarios, inputs and per-quarter shares. Cell positions come
// from rebuilding the sheet from the stored data in memory, so the upload
// must have been built from the same stored state.
func (s *Service) ReadEdits(ctx context.Context, symbol string, data []byte) (*model.Analysis, error) {
	series, err := s.Series(ctx, symbol)
	if err != nil {
		return nil, err
	}
	res, err := sheet.Build(grid.NewMemory(), series, s.sheetOptions())
	if err != nil {
		return nil, eris.Wrapf(err, "report: rebuild layout %s", symbol)
	}

	wb, err := grid.OpenWorkbook(data, s.opts.SheetName)
	if err != nil {
		return nil, eris.Wrapf(ErrBadUpload, "report: open upload: %v", err)
	}

	inputs := sheet.ReadInputs(wb)
	inputs.TradingDate = series.Inputs.TradingDate
	a := &model.Analysis{
		PEAssumptions: sheet.ReadPEScenarios(wb, res.Valuation),
		Inputs:        &inputs,
		Shares:        sheet.ReadSharesPerQuarter(wb, res.Quarterly),
	}
	if len(a.Shares) == 0 {
		a.Shares = nil
	}
	return a, nil
}

// SaveEdits reads a downloaded workbook and stores its edits as the
// symbol's analysis.
func (s *Service) SaveEdits(ctx context.Context, symbol string, data []byte) (*model.Analysis, error) {
	a, err := s.ReadEdits(ctx, symbol, data)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt = s.opts.Now().UTC()
	if err := s.store.SaveAnalysis(ctx, symbol, *a); err != nil {
		return nil, eris.Wrapf(err, "report: save analysis %s", symbol)
	}
	return a, nil
}

// SavePEAssumptions replaces the saved P/E scenarios for symbol and keeps the
// rest of any saved analysis.
func (s *Service) SavePEAssumptions(ctx context.Context, symbol string, pe []float64) (*model.Analysis, error) {
	if len(pe) == 0 {
		return nil, eris.Wrap(ErrInvalidAssumption, "report: no P/E assumptions")
	}
	for _, v := range pe {
		if v <= 0 {
			return nil, eris.Wrapf(ErrInvalidAssumption, "report: P/E assumption must be positive, got %v", v)
		}
	}

	snap, err := s.store.LoadStock(ctx, symbol)
	if err != nil {
		return nil, eris.Wrapf(err, "report: load %s", symbol)
	}
	a := model.Analysis{}
	if snap.Analysis != nil {
		a = *snap.Analysis
	}
	a.PEAssumptions = append([]float64(nil), pe...)
	a.UpdatedAt = s.opts.Now().UTC()
	if err := s.store.SaveAnalysis(ctx, symbol, a); err != nil {
		return nil, eris.Wrapf(err, "report: save analysis %s", symbol)
	}
	return &a, nil
}
