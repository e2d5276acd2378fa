package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/meli-pricer/internal/config"
	"github.com/donaldgifford/meli-pricer/internal/engine"
	"github.com/donaldgifford/meli-pricer/internal/shipping"
	"github.com/donaldgifford/meli-pricer/internal/store"
	"github.com/donaldgifford/meli-pricer/pkg/logger"
	domain "github.com/donaldgifford/meli-pricer/pkg/types"
)

var calcFlags struct {
	listings       string
	catalog        string
	out            string
	includeTaxes   bool
	surchargeMode  string
	surchargeValue float64
	stockPct       float64
	withholdingPct float64
	financingBase  string
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run the pricing pipeline over CSV exports",
	Long: "Reads the MercadoLibre price-change export and the Odoo catalog export " +
		"from CSV files, runs the full pricing pipeline offline, and writes the " +
		"result table as CSV.",
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVar(&calcFlags.listings, "listings", "", "MercadoLibre export CSV (required)")
	calcCmd.Flags().StringVar(&calcFlags.catalog, "catalog", "", "Odoo catalog export CSV (required)")
	calcCmd.Flags().StringVar(&calcFlags.out, "out", "results.csv", "output CSV path")
	calcCmd.Flags().BoolVar(&calcFlags.includeTaxes, "include-taxes", false, "fold customer taxes into the tariff base")
	calcCmd.Flags().StringVar(&calcFlags.surchargeMode, "surcharge-mode", "", "shipping surcharge mode (none, fixed, percentage)")
	calcCmd.Flags().Float64Var(&calcFlags.surchargeValue, "surcharge-value", 0, "shipping surcharge value")
	calcCmd.Flags().Float64Var(&calcFlags.stockPct, "stock-pct", -1, "stock percentage to publish, 0-100 (-1 uses config)")
	calcCmd.Flags().Float64Var(&calcFlags.withholdingPct, "withholding", -1, "withholding as a decimal fraction (-1 uses config)")
	calcCmd.Flags().StringVar(&calcFlags.financingBase, "financing-base", "", "declared financing base (tarifa, tarifa_mas_ml)")

	cobra.CheckErr(calcCmd.MarkFlagRequired("listings"))
	cobra.CheckErr(calcCmd.MarkFlagRequired("catalog"))

	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logLevel(cfg.Logging.Level), cfg.Logging.Format)

	listings, err := readRecords(calcFlags.listings)
	if err != nil {
		return fmt.Errorf("reading listings: %w", err)
	}
	catalog, err := readRecords(calcFlags.catalog)
	if err != nil {
		return fmt.Errorf("reading catalog: %w", err)
	}

	opts := cfg.Pricing.Options()
	applyCalcFlags(&opts)

	eng := engine.NewEngine(
		store.NewNoop(log),
		engine.WithLogger(log),
		engine.WithShippingEvaluator(shipping.NewEvaluator(cfg.Pricing.EligibleShipping...)),
	)

	result, err := eng.Run(cmd.Context(), listings, catalog, opts)
	if err != nil {
		return err
	}

	if err := writeTable(calcFlags.out, result); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	log.Info("results written",
		"path", calcFlags.out,
		"rows", result.Stats.ResultRows,
		"match_rate_pct", result.Stats.MatchRate,
	)
	return nil
}

func applyCalcFlags(opts *domain.RunOptions) {
	if calcFlags.includeTaxes {
		opts.IncludeTaxesInTariff = true
	}
	if calcFlags.surchargeMode != "" {
		opts.SurchargeMode = domain.SurchargeMode(calcFlags.surchargeMode)
		opts.SurchargeValue = calcFlags.surchargeValue
	}
	if calcFlags.stockPct >= 0 {
		opts.StockPercentage = domain.Float(calcFlags.stockPct)
	}
	if calcFlags.withholdingPct >= 0 {
		opts.WithholdingPct = calcFlags.withholdingPct
	}
	if calcFlags.financingBase != "" {
		opts.FinancingBase = domain.FinancingBase(calcFlags.financingBase)
	}
}

// readRecords loads a CSV file into raw records keyed by the header row.
// Headers keep their exact spelling, trailing spaces included; only a
// leading UTF-8 BOM is stripped.
func readRecords(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeTable(path string, result *engine.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(result.Table.ColumnLabels); err != nil {
		return err
	}
	for _, cells := range result.Table.Cells() {
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = cellString(c)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cellString(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', 2, 64)
	default:
		return fmt.Sprint(c)
	}
}
