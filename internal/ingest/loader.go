// Package ingest parses brokerage trade-export CSV files into normalized trades.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/models"
)

// ErrNoTrades is returned when no order rows could be loaded from any file.
var ErrNoTrades = errors.New("no loadable trade data in any input file")

// timestampLayout matches the broker's "2023-07-21, 14:32:05" format.
const timestampLayout = "2006-01-02, 15:04:05"

// Required columns in the trade export. Extra columns are ignored.
var requiredColumns = []string{
	"Trades", "DataDiscriminator", "Asset Category", "Currency", "Symbol",
	"Date/Time", "Quantity", "T. Price", "C. Price", "Proceeds",
	"Comm/Fee", "Code",
}

// Loader reads trade-export CSV files.
type Loader struct {
	logger *common.Logger
}

// NewLoader creates a trade loader.
func NewLoader(logger *common.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadTrades parses every file, concatenates the results, and returns the
// combined set ordered by timestamp ascending. A file that cannot be opened
// or has an unusable header is skipped with a warning. ErrNoTrades is
// returned only when every file yielded nothing.
func (l *Loader) LoadTrades(paths []string) ([]models.Trade, error) {
	var all []models.Trade

	for _, path := range paths {
		trades, err := l.loadFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("file", path).Msg("Skipping trade file")
			continue
		}
		l.logger.Info().Str("file", path).Int("trades", len(trades)).Msg("Loaded trade file")
		all = append(all, trades...)
	}

	if len(all) == 0 {
		return nil, ErrNoTrades
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})

	return all, nil
}

// loadFile parses a single CSV export. Rows that fail parsing are skipped
// with a warning; only unreadable files or headers are errors.
func (l *Loader) loadFile(path string) ([]models.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // broker exports mix section rows of differing width

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	col, err := columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var trades []models.Trade
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.logger.Warn().Err(err).Str("file", path).Int("line", line).Msg("Skipping malformed row")
			continue
		}

		if !isOrderRow(record, col) {
			continue
		}

		trade, err := parseTrade(record, col)
		if err != nil {
			l.logger.Warn().Err(err).Str("file", path).Int("line", line).Msg("Skipping unparsable order row")
			continue
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

// columnIndex maps column names to field positions and verifies all required
// columns are present.
func columnIndex(header []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return col, nil
}

// isOrderRow reports whether the record is a confirmed order row. Real
// exports mark orders with DataDiscriminator "Order"; the demo generator
// emits "Data". Both are accepted.
func isOrderRow(record []string, col map[string]int) bool {
	if field(record, col, "Trades") != "Trades" {
		return false
	}
	disc := field(record, col, "DataDiscriminator")
	return disc == "Order" || disc == "Data"
}

// parseTrade converts one order row into a Trade. Failure of any numeric or
// timestamp field rejects the whole row at the boundary.
func parseTrade(record []string, col map[string]int) (models.Trade, error) {
	ts, err := time.Parse(timestampLayout, field(record, col, "Date/Time"))
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad Date/Time: %w", err)
	}

	quantity, err := parseNumber(field(record, col, "Quantity"))
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad Quantity: %w", err)
	}

	tradePrice, err := parseNumber(field(record, col, "T. Price"))
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad T. Price: %w", err)
	}

	commissionPrice, err := parseNumber(field(record, col, "C. Price"))
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad C. Price: %w", err)
	}

	proceeds, err := parseNumber(field(record, col, "Proceeds"))
	if err != nil {
		return models.Trade{}, fmt.Errorf("bad Proceeds: %w", err)
	}

	symbol := field(record, col, "Symbol")
	if symbol == "" {
		return models.Trade{}, errors.New("empty Symbol")
	}

	return models.Trade{
		Symbol:          symbol,
		Currency:        field(record, col, "Currency"),
		Timestamp:       ts,
		Quantity:        quantity,
		TradePrice:      tradePrice,
		CommissionPrice: commissionPrice,
		Proceeds:        proceeds,
	}, nil
}

// parseNumber parses a numeric field, stripping thousands separators.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, errors.New("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
