package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"ontoqa/internal/config"
	"ontoqa/internal/graph"
	"ontoqa/internal/inference"
	"ontoqa/internal/knowledge"
	"ontoqa/internal/logging"
	"ontoqa/internal/metrics"
	"ontoqa/internal/pipeline"
	"ontoqa/internal/processor"
	"ontoqa/internal/retrieval"
	"ontoqa/internal/source"
	"ontoqa/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "ontoqa",
		Short: "Answer yes/no questions about an ontology of triples",
	}
	configPath string
	dbPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to a SQLite triple snapshot (overrides data.database)")

	askCmd.Flags().Bool("stats", false, "Print resolver metrics after answering")
	inspectCmd.Flags().Bool("relationships", false, "List every relationship")
	inspectCmd.Flags().Bool("inferred", false, "List only inferred relationships")
	inspectCmd.Flags().Bool("metrics", false, "Print build and resolver metrics")
	inspectCmd.Flags().StringSliceP("entity", "e", nil, "Show the neighbourhood of these entities")
	inspectCmd.Flags().Int("hops", 1, "Neighbourhood radius for --entity")
	inspectCmd.Flags().Bool("base-only", false, "Ignore inferred relationships in the neighbourhood")
	generateCmd.Flags().Int("records", 500, "Number of triples to generate")
	generateCmd.Flags().Uint64("seed", 1, "Random seed")
	generateCmd.Flags().StringP("out", "o", "", "Output CSV file (default stdout)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(generateCmd)
}

// loadConfig reads the config file, applies the --db flag and sets up logging.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Data.Database = dbPath
	}
	if err := logging.Configure(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	return cfg
}

// buildOntology runs the build pipeline with progress lines on stderr, so
// stdout carries only answers.
func buildOntology(ctx context.Context, cfg *config.Config) *knowledge.Ontology {
	b := pipeline.NewBuild(cfg)
	b.Out = os.Stderr
	o, err := b.Run(ctx)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}
	return o
}

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer questions given as arguments, or one per line on stdin",
	Long: `Answer questions of the forms:
  is <x> a type of <y>?
  is <x> a <y>?  /  is <x> an <y>?
  is <x> considered to be <y>?

Each answer is one of YES, NO, DONT_KNOW or INVALID.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		o := buildOntology(cmd.Context(), cfg)
		p := processor.New(o)
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			for _, text := range args {
				fmt.Fprintf(out, "%s\t%s\n", p.ProcessContext(cmd.Context(), text), text)
			}
		} else {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", p.ProcessContext(cmd.Context(), text), text)
			}
			if err := scanner.Err(); err != nil {
				log.Fatalf("Failed to read questions: %v", err)
			}
		}

		if stats, _ := cmd.Flags().GetBool("stats"); stats {
			printMetrics(cmd.ErrOrStderr(), o.Gatherer())
			fmt.Fprintf(cmd.ErrOrStderr(), "cached answers: %d\n", o.CacheSize())
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import [pattern...]",
	Short: "Validate triple sources and save them as a SQLite snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) > 0 {
			cfg.Data.Sources = args
		}
		if cfg.Data.Database == "" {
			cfg.Data.Database = "ontoqa.db"
		}

		fmt.Printf("📂 Importing %s\n", strings.Join(cfg.Data.Sources, ", "))
		n, err := pipeline.NewBuild(cfg).Import(cmd.Context())
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("🎉 Import complete! %d triples in %s\n", n, cfg.Data.Database)
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show what the ontology contains after inference",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		o := buildOntology(cmd.Context(), cfg)
		out := cmd.OutOrStdout()

		stats := o.Graph().Stats()
		fmt.Fprintf(out, "Entities:      %d\n", stats.Entities)
		fmt.Fprintf(out, "Relationships: %d (%d inferred)\n", stats.Relationships, stats.Inferred)
		for _, kind := range graph.AllKinds {
			fmt.Fprintf(out, "  %-22s %d\n", kind, stats.ByKind[kind])
		}

		report := o.Inference()
		fmt.Fprintf(out, "Inference:     %s, %d round(s)\n", report.Mode, report.Rounds)
		if report.Mode == inference.ModeFixedPoint && !report.Converged {
			fmt.Fprintln(out, "  ⚠️ round limit reached with pending work")
		}
		for _, rr := range report.Rules {
			fmt.Fprintf(out, "  %-22s %d produced\n", rr.Rule, rr.Produced)
		}

		if cfg.Data.Database != "" {
			printStoredCounts(cmd.Context(), out, cfg.Data.Database)
		}

		all, _ := cmd.Flags().GetBool("relationships")
		inferred, _ := cmd.Flags().GetBool("inferred")
		if all || inferred {
			fmt.Fprintln(out)
			for _, rel := range o.Graph().Relationships() {
				if inferred && !rel.Inferred {
					continue
				}
				fmt.Fprintln(out, rel)
			}
		}

		if seeds, _ := cmd.Flags().GetStringSlice("entity"); len(seeds) > 0 {
			rc := retrieval.DefaultConfig()
			rc.MaxHops, _ = cmd.Flags().GetInt("hops")
			rc.BaseOnly, _ = cmd.Flags().GetBool("base-only")
			printNeighbourhood(out, retrieval.Extract(o.Graph(), seeds, rc))
		}

		if m, _ := cmd.Flags().GetBool("metrics"); m {
			fmt.Fprintln(out)
			printMetrics(out, o.Gatherer())
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a random ontology CSV for load testing",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		loadConfig()
		records, _ := cmd.Flags().GetInt("records")
		seed, _ := cmd.Flags().GetUint64("seed")
		outPath, _ := cmd.Flags().GetString("out")

		opts := source.GenerateOptions{Records: records, Seed: seed}
		if outPath == "" {
			if err := source.WriteGenerated(cmd.OutOrStdout(), opts); err != nil {
				log.Fatalf("Failed to write triples: %v", err)
			}
			return
		}

		if err := source.WriteGeneratedFile(outPath, opts); err != nil {
			log.Fatalf("Failed to write triples: %v", err)
		}
		fmt.Printf("✅ Wrote %d triples to %s\n", records, outPath)
	},
}

func printNeighbourhood(w io.Writer, sg *retrieval.Subgraph) {
	fmt.Fprintln(w)
	for _, name := range sg.Missing {
		fmt.Fprintf(w, "⚠️ Unknown entity: %s\n", name)
	}
	fmt.Fprintf(w, "Neighbourhood of %s (%d hop(s)): %d entities\n", strings.Join(sg.Seeds, ", "), sg.MaxHops, len(sg.Entities))
	for _, name := range sg.Entities {
		fmt.Fprintf(w, "  [%d] %s\n", sg.Depths[name], name)
	}
	for _, rel := range sg.Edges {
		fmt.Fprintf(w, "  %s\n", rel)
	}
}

// printStoredCounts shows the raw edge types held in the snapshot database,
// before any inference.
func printStoredCounts(ctx context.Context, w io.Writer, path string) {
	store, err := storage.OpenSQLiteStore(path)
	if err != nil {
		log.Printf("⚠️ Failed to open %s: %v", path, err)
		return
	}
	defer store.Close()

	counts, err := store.CountByKind(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to count stored triples: %v", err)
		return
	}
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	fmt.Fprintf(w, "Stored in %s:\n", path)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %-22s %d\n", kind, counts[kind])
	}
}

func printMetrics(w io.Writer, g prometheus.Gatherer) {
	samples, err := metrics.Snapshot(g)
	if err != nil {
		log.Printf("⚠️ Failed to gather metrics: %v", err)
		return
	}
	for _, s := range samples {
		fmt.Fprintf(w, "%s%s %g\n", s.Name, s.Labels, s.Value)
	}
}
