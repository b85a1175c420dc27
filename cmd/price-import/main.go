// Command price-import loads supplier price feeds into the products table.
//
// A feed is a gzip-compressed JSON-lines file where each line carries a
// product code, a payment modality, and a price:
//
//	{"codigo":"7891000100103","modalidade":"pix","preco":"25.90"}
//
// Feeds are processed concurrently. Within a run the first occurrence of a
// (code, modality) pair wins, so newer feeds should be listed first.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mercatto/loja-api/internal/pricing"
	"github.com/mercatto/loja-api/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
)

// priceLine is one parsed feed entry.
type priceLine struct {
	code     string
	modality pricing.Modality
	price    decimal.Decimal
}

// priceColumns maps feed modalities to product table columns.
var priceColumns = map[pricing.Modality]string{
	pricing.ModalityVarejo:   "preco_varejo",
	pricing.ModalityCartao:   "preco_cartao",
	pricing.ModalityPix:      "preco_pix",
	pricing.ModalityDinheiro: "preco_dinheiro",
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one feed file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("price import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("price import completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("parsing feeds", slog.Int("files", len(files)))

	updates, err := collectUpdates(ctx, files)
	if err != nil {
		return errors.Wrap(err, "collect updates")
	}

	slog.Info("price updates collected", slog.Int("count", len(updates)))

	if len(updates) == 0 {
		slog.Info("no updates to apply")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	return applyUpdates(ctx, pool, updates)
}

// feedKey identifies one (code, modality) pair across feeds.
type feedKey struct {
	code     string
	modality pricing.Modality
}

// collectUpdates streams every feed concurrently and merges the results in
// file order, so the first file listed takes priority for duplicate keys.
func collectUpdates(ctx context.Context, files []string) (map[feedKey]decimal.Decimal, error) {
	results := make([]map[feedKey]decimal.Decimal, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(parseFeed(ctx, i, f, results))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[feedKey]decimal.Decimal)
	for _, r := range results {
		for key, price := range r {
			if _, ok := merged[key]; !ok {
				merged[key] = price
			}
		}
	}
	return merged, nil
}

func parseFeed(ctx context.Context, idx int, path string, results []map[feedKey]decimal.Decimal) func() error {
	return func() error {
		// Feeds repeat entries heavily. The bloom filter skips the map
		// lookup for keys that definitely have not been seen yet.
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		prices := make(map[feedKey]decimal.Decimal)
		var count uint64

		if err := streamGzFile(ctx, path, func(line []byte) error {
			entry, err := parseLine(line)
			if err != nil {
				return err
			}
			if _, ok := priceColumns[entry.modality]; !ok {
				return nil
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress", slog.Int("file", idx+1), slog.Uint64("lines", count))
			}

			key := feedKey{code: entry.code, modality: entry.modality}
			raw := entry.code + "|" + string(entry.modality)
			if seen.TestString(raw) {
				if _, ok := prices[key]; ok {
					return nil
				}
			}
			seen.AddString(raw)
			prices[key] = entry.price
			return nil
		}); err != nil {
			return errors.Wrapf(err, "parse feed %s", path)
		}

		slog.Info("feed parsed",
			slog.Int("file", idx+1),
			slog.Uint64("lines", count),
			slog.Int("unique", len(prices)),
		)

		results[idx] = prices
		return nil
	}
}

// parseLine decodes one JSON feed line.
func parseLine(line []byte) (priceLine, error) {
	var entry priceLine
	d := jx.DecodeBytes(line)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "codigo":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "codigo")
			}
			entry.code = v
		case "modalidade":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "modalidade")
			}
			entry.modality = pricing.Modality(v)
		case "preco":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "preco")
			}
			price, err := decimal.NewFromString(v)
			if err != nil {
				return errors.Wrapf(err, "parse price %q", v)
			}
			entry.price = price
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return priceLine{}, errors.Wrap(err, "decode line")
	}

	if entry.code == "" {
		return priceLine{}, errors.New("feed line missing codigo")
	}
	if !entry.price.IsPositive() {
		return priceLine{}, errors.Errorf("feed line for %s has non-positive price", entry.code)
	}
	return entry, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// applyUpdates writes the merged prices, one UPDATE per modality column.
func applyUpdates(ctx context.Context, pool *pgxpool.Pool, updates map[feedKey]decimal.Decimal) error {
	type colUpdate struct {
		codes  []string
		prices []decimal.Decimal
	}
	byColumn := make(map[string]*colUpdate)
	for key, price := range updates {
		col := priceColumns[key.modality]
		cu, ok := byColumn[col]
		if !ok {
			cu = &colUpdate{}
			byColumn[col] = cu
		}
		cu.codes = append(cu.codes, key.code)
		cu.prices = append(cu.prices, price)
	}

	var mu sync.Mutex
	applied := 0

	g, ctx := errgroup.WithContext(ctx)
	for col, cu := range byColumn {
		g.Go(func() error {
			sql := `UPDATE products SET ` + col + ` = u.price, updated_at = now()
FROM (SELECT unnest($1::text[]) AS code, unnest($2::numeric[]) AS price) AS u
WHERE products.code = u.code`

			tag, err := pool.Exec(ctx, sql, cu.codes, cu.prices)
			if err != nil {
				return errors.Wrapf(err, "update column %s", col)
			}

			mu.Lock()
			applied += int(tag.RowsAffected())
			mu.Unlock()

			slog.Info("column updated", slog.String("column", col), slog.Int64("rows", tag.RowsAffected()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("updates applied", slog.Int("rows", applied))
	return nil
}
