package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/recurring-features/internal"
	"github.com/gigurra/recurring-features/internal/batch"
	"github.com/gigurra/recurring-features/internal/logger"
	"github.com/gigurra/recurring-features/internal/model"
)

type Params struct {
	ModelDir  string `name:"model_dir" descr:"Directory with vectorizer.yaml and classifier.yaml" default:"model"`
	Input     string `descr:"Transaction file or directory of files (format:path selects a parser)" default:"data"`
	Output    string `descr:"Directory for the prediction CSVs" default:"predictions"`
	Jobs      int    `descr:"Concurrent feature workers (0 = one per CPU)" default:"0"`
	ChunkSize int    `name:"chunk_size" descr:"Rows per chunk (0 = config value or 10000)" default:"0"`
	Config    string `descr:"Path to config file (default: ~/.recurring-features/config.yaml)" optional:"true"`
	Source    string `descr:"Input format when not given by prefix or extension" alts:"csv,simple-json,xlsx" strict:"true" optional:"true"`
	Format    string `descr:"Summary output format" alts:"table,json" strict:"true" default:"table"`
	LogLevel  string `name:"log_level" descr:"Log level" alts:"debug,info,warn,error" strict:"true" default:"info"`
	F         string `name:"f" descr:"Ignored (notebook kernel launcher argument)" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("recurring-predict").
		WithShort("Predict recurring transactions in batch").
		WithLong("Computes the recurring-transaction features of every row of the input files, scores them with a " +
			"trained model and writes one CSV per input with predicted_recurring and recurring_probability columns.").
		WithRunFunc(func(params *Params) {
			log := logger.New(os.Stderr, params.LogLevel)

			cfg, err := internal.LoadConfigOrDefault(params.Config)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to load config")
			}

			m, err := model.LoadModelDir(params.ModelDir)
			if err != nil {
				log.Fatal().Err(err).Str("model_dir", params.ModelDir).Msg("Failed to load model")
			}

			extractor, err := internal.NewExtractor(cfg)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to build feature extractor")
			}
			if missing := batch.MissingFeatures(extractor, m.Vectorizer); len(missing) > 0 {
				log.Warn().Strs("features", missing).Msg("Model expects features that are not computed; they encode as 0")
			}

			inputs, err := batch.ListInputs(params.Input)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to list inputs")
			}

			log.Info().
				Int("files", len(inputs)).
				Str("sets", strings.Join(extractor.Sets(), ",")).
				Int("model_features", m.Vectorizer.Len()).
				Msg("Starting batch prediction")

			ctx, stop := signal.NotifyContext(logger.WithContext(context.Background(), log), os.Interrupt)
			defer stop()

			chunkSize := params.ChunkSize
			if chunkSize <= 0 {
				chunkSize = cfg.EffectiveChunkSize(batch.DefaultChunkSize)
			}

			runner := batch.NewRunner(m, extractor, batch.Options{
				Jobs:      params.Jobs,
				ChunkSize: chunkSize,
				Format:    params.Source,
				OutputDir: params.Output,
			})
			summary := batch.Summarize(runner.Run(ctx, inputs))

			if params.Format == "json" {
				if err := batch.PrintSummaryJSON(os.Stdout, summary); err != nil {
					log.Fatal().Err(err).Msg("Failed to write summary")
				}
			} else {
				batch.PrintSummaryTable(os.Stdout, summary)
			}

			if summary.Failed > 0 {
				stop()
				os.Exit(1)
			}
		}).
		Run()
}
