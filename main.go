package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/username/tezgains/src/classification"
	"github.com/username/tezgains/src/classifiers"
	"github.com/username/tezgains/src/collation"
	"github.com/username/tezgains/src/config"
	"github.com/username/tezgains/src/database"
	"github.com/username/tezgains/src/exchange"
	"github.com/username/tezgains/src/gains"
	"github.com/username/tezgains/src/logger"
	"github.com/username/tezgains/src/models"
	"github.com/username/tezgains/src/rows"
	"github.com/username/tezgains/src/tzkt"
	"github.com/username/tezgains/src/utils"
)

// yearDirs holds the per-year directory layout under the data dir.
type yearDirs struct {
	year         int
	userDir      string
	downloadsDir string
	reportsDir   string
}

func makeYearDirs(dataDir string, year int) (yearDirs, error) {
	base := filepath.Join(dataDir, strconv.Itoa(year))
	d := yearDirs{
		year:         year,
		userDir:      filepath.Join(base, "user"),
		downloadsDir: filepath.Join(base, "downloads"),
		reportsDir:   filepath.Join(base, "reports"),
	}
	for _, dir := range []string{d.userDir, d.downloadsDir, d.reportsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return d, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return d, nil
}

// fetchCached returns the cached payload for an account/year/kind triple,
// falling back to fetch and storing the result. Indexer data for closed
// years never changes, so the cache has no expiry.
func fetchCached[T any](account string, year int, kind string, fetch func() (T, error)) (T, error) {
	var result T
	payload, found, err := database.GetCachedPayload(account, year, kind)
	if err != nil {
		return result, fmt.Errorf("reading %s cache for %s/%d: %w", kind, account, year, err)
	}
	if found {
		if err := json.Unmarshal(payload, &result); err != nil {
			return result, fmt.Errorf("decoding cached %s for %s/%d: %w", kind, account, year, err)
		}
		return result, nil
	}

	result, err = fetch()
	if err != nil {
		return result, err
	}
	payload, err = json.Marshal(result)
	if err != nil {
		return result, fmt.Errorf("encoding %s for cache: %w", kind, err)
	}
	if err := database.PutCachedPayload(account, year, kind, payload); err != nil {
		return result, fmt.Errorf("writing %s cache for %s/%d: %w", kind, account, year, err)
	}
	return result, nil
}

func processAddress(ctx context.Context, client *tzkt.Client, classifier *classification.Classifier, dirs yearDirs, yr utils.YearRange, address string) ([]models.Row, error) {
	logger.L.Info("Fetching hashes and tokens", "address", address, "year", yr.Year)
	hashes, err := fetchCached(address, yr.Year, "hashes", func() ([]string, error) {
		hashes, tokens, err := client.FetchAllHashesAndTokens(ctx, address, yr.Start, yr.End)
		if err != nil {
			return nil, err
		}
		// cache the tokens alongside so the second lookup below hits
		payload, err := json.Marshal(tokens)
		if err != nil {
			return nil, err
		}
		if err := database.PutCachedPayload(address, yr.Year, "tokens", payload); err != nil {
			return nil, err
		}
		return hashes, nil
	})
	if err != nil {
		return nil, err
	}
	tokens, err := fetchCached(address, yr.Year, "tokens", func() ([]models.Token, error) {
		_, tokens, err := client.FetchAllHashesAndTokens(ctx, address, yr.Start, yr.End)
		return tokens, err
	})
	if err != nil {
		return nil, err
	}
	logger.L.Info("Hashes and tokens ready", "hashes", len(hashes), "tokens", len(tokens))

	logger.L.Info("Fetching operation groups", "address", address, "year", yr.Year)
	groups, err := fetchCached(address, yr.Year, "operations", func() ([]models.OperationGroup, error) {
		return client.FetchOperationGroups(ctx, hashes, config.Cfg.Currency)
	})
	if err != nil {
		return nil, err
	}

	logger.L.Info("Classifying operations", "address", address, "groups", len(groups))
	results, err := classifier.ClassifyGroups(address, groups, tokens)
	if err != nil {
		return nil, err
	}

	accountRows := rows.FromResults(results)
	classifiedFile := filepath.Join(dirs.reportsDir, address+"-classified.csv")
	if err := rows.Write(classifiedFile, accountRows); err != nil {
		return nil, err
	}
	return accountRows, nil
}

func run() error {
	ctx := context.Background()
	cfg := config.Cfg

	database.InitDB(cfg.CacheDBPath)
	client := tzkt.NewClient(cfg.TzktAPIURL, cfg.TzktRPS, cfg.HTTPTimeout)
	classifier := classification.NewClassifier(classifiers.DefaultRegistry())

	yearRanges := utils.CalculateYearDateRanges(cfg.StartYear, cfg.EndYear)

	var allExchangeRows [][]models.Row
	var allAccountRows [][]models.Row
	dirsByYear := make([]yearDirs, 0, len(yearRanges))

	for _, yr := range yearRanges {
		logger.L.Info("Processing year", "year", yr.Year)
		dirs, err := makeYearDirs(cfg.DataDir, yr.Year)
		if err != nil {
			return err
		}
		dirsByYear = append(dirsByYear, dirs)

		for _, address := range cfg.Addresses {
			accountRows, err := processAddress(ctx, client, classifier, dirs, yr, address)
			if err != nil {
				return fmt.Errorf("processing %s for %d: %w", address, yr.Year, err)
			}
			allAccountRows = append(allAccountRows, accountRows)
		}

		exchangeRows, err := exchange.ReadFile(filepath.Join(dirs.userDir, cfg.ExchangeFile))
		if err != nil {
			return fmt.Errorf("reading exchange rows for %d: %w", yr.Year, err)
		}
		allExchangeRows = append(allExchangeRows, exchangeRows)
	}

	logger.L.Info("Collating all transactions")
	collatedRows, err := collation.Collate(allExchangeRows, allAccountRows)
	if err != nil {
		return err
	}

	for _, dirs := range dirsByYear {
		var rowsForYear []models.Row
		for _, r := range collatedRows {
			if utils.IsTimestampInYear(r.Timestamp, dirs.year) {
				rowsForYear = append(rowsForYear, r)
			}
		}
		logger.L.Info("Writing collated transactions", "year", dirs.year, "rows", len(rowsForYear))
		allFile := filepath.Join(dirs.reportsDir, "all-classified-transactions.csv")
		if err := rows.Write(allFile, rowsForYear); err != nil {
			return err
		}

		logger.L.Info("Generating income statement", "year", dirs.year)
		incomeSummary := gains.SummarizeIncome(dirs.year, collatedRows, cfg.Currency)
		if err := rows.WriteIncome(filepath.Join(dirs.reportsDir, "income.csv"), incomeSummary); err != nil {
			return err
		}

		for _, policy := range []gains.Policy{gains.FIFO, gains.HIFO} {
			logger.L.Info("Generating gains report", "year", dirs.year, "policy", policy)
			report, err := gains.GenerateReport(dirs.year, collatedRows, policy)
			if err != nil {
				return fmt.Errorf("gains report %s for %d: %w", policy, dirs.year, err)
			}
			gainsFile := filepath.Join(dirs.reportsDir, fmt.Sprintf("gains-%s.csv", policy))
			if err := rows.WriteDisposals(gainsFile, report); err != nil {
				return err
			}
		}
	}

	logger.L.Info("Finished. Have a nice day. :)")
	return nil
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	if err := run(); err != nil {
		logger.L.Error("run failed", "error", err)
		os.Exit(1)
	}
}
