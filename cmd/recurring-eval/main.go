package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/recurring-features/internal"
	"github.com/gigurra/recurring-features/internal/batch"
	"github.com/gigurra/recurring-features/internal/logger"
)

type Params struct {
	File           string  `descr:"Labeled transaction file (format:path selects a parser)" positional:"true"`
	Output         string  `descr:"Directory for the analysis CSVs" default:"."`
	Config         string  `descr:"Path to config file (default: ~/.recurring-features/config.yaml)" optional:"true"`
	Source         string  `descr:"Input format when not given by prefix or extension" alts:"csv,simple-json,xlsx" strict:"true" optional:"true"`
	NameMinPct     float64 `name:"name_min_pct" descr:"Minimum recurring share for a name" default:"0.9"`
	AmountMinPct   float64 `name:"amount_min_pct" descr:"Minimum recurring share for an amount" default:"0.5"`
	AmountMinCount int     `name:"amount_min_count" descr:"Minimum rows for an amount" default:"10"`
	Format         string  `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	Xlsx           bool    `descr:"Also write recurring_analysis.xlsx" optional:"true"`
	Features       bool    `descr:"Compare feature means between recurring and one-off rows" optional:"true"`
	Suggest        bool    `descr:"Suggest vendor families sharing a name prefix" optional:"true"`
	Limit          int     `descr:"Max rows per table (0 = all)" default:"20"`
	Currency       string  `descr:"Currency code for amounts (default: from locale)" optional:"true"`
	Jobs           int     `descr:"Concurrent feature workers (0 = one per CPU)" default:"0"`
	LogLevel       string  `name:"log_level" descr:"Log level" alts:"debug,info,warn,error" strict:"true" default:"info"`
}

func main() {
	boa.NewCmdT[Params]("recurring-eval").
		WithShort("Analyze a labeled transaction dataset").
		WithLong("Finds the merchant names and rounded amounts that are almost always labeled recurring, " +
			"writes them as CSV tables and optionally compares feature values between recurring and one-off rows.").
		WithRunFunc(func(params *Params) {
			log := logger.New(os.Stderr, params.LogLevel)

			cfg, err := internal.LoadConfigOrDefault(params.Config)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to load config")
			}

			ds, err := internal.ParseFileAs(params.File, params.Source)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse input")
			}
			if !ds.HasLabels() {
				log.Fatal().Str("file", params.File).Msg("Input has no recurring column")
			}
			log.Info().Int("rows", ds.Len()).Msg("Loaded dataset")

			report := internal.Evaluate(ds, internal.EvalOptions{
				NameMinPct:     params.NameMinPct,
				AmountMinPct:   params.AmountMinPct,
				AmountMinCount: params.AmountMinCount,
			})

			topFeatures := 0
			if params.Features {
				e, err := internal.NewExtractor(cfg)
				if err != nil {
					log.Fatal().Err(err).Msg("Failed to build feature extractor")
				}
				ctx := logger.WithContext(context.Background(), log)
				features, err := batch.ExtractRange(ctx, e, internal.NewIndex(ds.Transactions), 0, ds.Len(), params.Jobs)
				if err != nil {
					log.Fatal().Err(err).Msg("Failed to compute features")
				}
				report.Features = internal.SummarizeFeatures(features, ds.Labels)
				topFeatures = params.Limit
				if topFeatures <= 0 {
					topFeatures = len(report.Features)
				}
			}

			if params.Suggest {
				report.Suggestions = internal.SuggestVendorFamilies(ds.Transactions, cfg.Tolerance())
			}

			if err := internal.WriteEvalCSVs(params.Output, report); err != nil {
				log.Fatal().Err(err).Msg("Failed to write analysis CSVs")
			}
			if params.Xlsx {
				path := filepath.Join(params.Output, internal.WorkbookFile)
				if err := internal.WriteEvalWorkbook(path, report); err != nil {
					log.Fatal().Err(err).Msg("Failed to write workbook")
				}
				log.Info().Str("path", path).Msg("Wrote workbook")
			}

			if params.Format == "json" {
				if err := internal.PrintEvalJSON(os.Stdout, report); err != nil {
					log.Fatal().Err(err).Msg("Failed to write report")
				}
				return
			}

			internal.PrintEvalTable(os.Stdout, report, internal.OutputOptions{
				Limit:       params.Limit,
				TopFeatures: topFeatures,
				Currency:    internal.ResolveCurrency(params.Currency),
			})
			if params.Suggest && len(report.Suggestions) == 0 {
				internal.PrintFamilySuggestions(os.Stdout, nil)
			}
		}).
		Run()
}
