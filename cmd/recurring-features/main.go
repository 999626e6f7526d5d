package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/recurring-features/internal"
	"github.com/gigurra/recurring-features/internal/batch"
	"github.com/gigurra/recurring-features/internal/logger"
	"github.com/gigurra/recurring-features/internal/model"
)

type Params struct {
	File          string `descr:"Transaction file (format:path selects a parser)" positional:"true"`
	Output        string `descr:"Feature matrix CSV path (- for stdout)" default:"-"`
	Sets          string `descr:"Comma-separated feature sets (default: all enabled in config)" optional:"true"`
	VectorizerDir string `name:"vectorizer_dir" descr:"Also write vectorizer.yaml with the feature columns into this directory" optional:"true"`
	Config        string `descr:"Path to config file (default: ~/.recurring-features/config.yaml)" optional:"true"`
	Source        string `descr:"Input format when not given by prefix or extension" alts:"csv,simple-json,xlsx" strict:"true" optional:"true"`
	Jobs          int    `descr:"Concurrent feature workers (0 = one per CPU)" default:"0"`
	ChunkSize     int    `name:"chunk_size" descr:"Rows per chunk (0 = config value or 10000)" default:"0"`
	LogLevel      string `name:"log_level" descr:"Log level" alts:"debug,info,warn,error" strict:"true" default:"info"`
}

func main() {
	boa.NewCmdT[Params]("recurring-features").
		WithShort("Dump the feature matrix of a transaction file").
		WithLong("Computes every selected feature set for each transaction and writes one CSV row per transaction " +
			"with id, user_id, the features in sorted order and the recurring label when present. " +
			"Available sets: " + strings.Join(internal.AvailableFeatureSets(), ", ") + ".").
		WithRunFunc(func(params *Params) {
			log := logger.New(os.Stderr, params.LogLevel)

			cfg, err := internal.LoadConfigOrDefault(params.Config)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to load config")
			}

			extractor, err := internal.NewExtractor(cfg, splitSets(params.Sets)...)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to build feature extractor")
			}

			ds, err := internal.ParseFileAs(params.File, params.Source)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse input")
			}
			log.Info().Int("rows", ds.Len()).Strs("sets", extractor.Sets()).Msg("Computing features")

			var w io.Writer = os.Stdout
			if params.Output != "-" {
				if dir := filepath.Dir(params.Output); dir != "." {
					if err := os.MkdirAll(dir, 0755); err != nil {
						log.Fatal().Err(err).Msg("Failed to create output directory")
					}
				}
				f, err := os.Create(params.Output)
				if err != nil {
					log.Fatal().Err(err).Msg("Failed to create output file")
				}
				defer f.Close()
				w = f
			}

			chunkSize := params.ChunkSize
			if chunkSize <= 0 {
				chunkSize = cfg.EffectiveChunkSize(batch.DefaultChunkSize)
			}

			ctx, stop := signal.NotifyContext(logger.WithContext(context.Background(), log), os.Interrupt)
			defer stop()

			names, err := batch.WriteFeatureMatrix(ctx, w, ds, extractor, batch.Options{Jobs: params.Jobs, ChunkSize: chunkSize})
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to write feature matrix")
			}
			log.Info().Int("features", len(names)).Str("output", params.Output).Msg("Feature matrix written")

			if params.VectorizerDir != "" {
				if err := model.SaveVectorizer(params.VectorizerDir, model.NewVectorizer(names)); err != nil {
					log.Fatal().Err(err).Msg("Failed to write vectorizer")
				}
				log.Info().Str("path", filepath.Join(params.VectorizerDir, model.VectorizerFile)).Msg("Vectorizer written")
			}
		}).
		Run()
}

func splitSets(s string) []string {
	var sets []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			sets = append(sets, name)
		}
	}
	return sets
}
