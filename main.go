package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/verdantlabs/carbonpeer/acquire"
	"github.com/verdantlabs/carbonpeer/api"
	"github.com/verdantlabs/carbonpeer/chunker"
	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/embedder"
	"github.com/verdantlabs/carbonpeer/ingest"
	"github.com/verdantlabs/carbonpeer/knowledge"
	"github.com/verdantlabs/carbonpeer/llm"
	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/recommend"
	"github.com/verdantlabs/carbonpeer/registry"
	"github.com/verdantlabs/carbonpeer/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zap.L().Sync() }()

	switch os.Args[1] {
	case "serve":
		serveCmd(cfg, os.Args[2:])
	case "seed":
		seedCmd(cfg, os.Args[2:])
	case "sources":
		sourcesCmd(cfg, os.Args[2:])
	case "ingest":
		ingestCmd(cfg, os.Args[2:])
	case "generate":
		generateCmd(cfg, os.Args[2:])
	case "recommend":
		recommendCmd(cfg, os.Args[2:])
	default:
		zap.S().Errorf("unknown command: %s", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// app holds the wired pipeline services shared by every command.
type app struct {
	store    store.Store
	registry *registry.Registry
	ingest   *ingest.Service
	cache    *recommend.Cache
	graph    *knowledge.Graph
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	st, err := store.New(ctx, cfg.Store, cfg.Embeddings.Dimension)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}

	graph, err := knowledge.NewGraph(ctx, cfg.Graph)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	blobs, err := acquire.NewBlobStore(cfg.Blob)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	emb, err := embedder.New(cfg.Embeddings)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	acq := acquire.NewService(st, blobs, acquire.NewFetcher(cfg.Ingest))
	retriever := recommend.NewRetriever(st, emb, cfg.Retrieval)

	a := &app{
		store:    st,
		registry: registry.New(st),
		ingest:   ingest.NewService(st, acq, chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap), emb, graph, cfg.Ingest),
		cache:    recommend.NewCache(st, recommend.NewGenerator(retriever, llmClient, time.Duration(cfg.LLM.TimeoutSecs)*time.Second)),
		graph:    graph,
	}
	cleanup := func() {
		if err := graph.Close(context.Background()); err != nil {
			zap.L().Warn("close graph", zap.Error(err))
		}
		if err := st.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
	return a, cleanup, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serveCmd(cfg *config.Config, args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	port := flags.Int("port", cfg.Server.Port, "port to listen on")
	if err := flags.Parse(args); err != nil {
		zap.S().Fatalf("parse serve flags: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("wire services: %v", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           api.New(a.store, a.registry, a.ingest, a.cache, a.graph),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("listening", zap.Int("port", *port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Fatalf("serve: %v", err)
	}
}

func seedCmd(cfg *config.Config, args []string) {
	flags := flag.NewFlagSet("seed", flag.ExitOnError)
	tenant := flags.String("tenant", "demo", "tenant to seed")
	if err := flags.Parse(args); err != nil {
		zap.S().Fatalf("parse seed flags: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("wire services: %v", err)
	}
	defer cleanup()

	benchmarks := mockBenchmarks(*tenant)
	for _, b := range benchmarks {
		if err := a.store.UpsertBenchmark(ctx, b); err != nil {
			zap.S().Fatalf("seed benchmark %s: %v", b.SupplierID, err)
		}
	}
	for _, src := range seedSources(*tenant) {
		if _, err := a.registry.Register(ctx, src); err != nil {
			zap.S().Fatalf("seed source %s: %v", src.Location, err)
		}
	}

	zap.L().Info("seeded demo data",
		zap.String("tenant", *tenant),
		zap.Int("benchmarks", len(benchmarks)),
		zap.Int("sources", len(seedSources(*tenant))))
}

func sourcesCmd(cfg *config.Config, args []string) {
	flags := flag.NewFlagSet("sources", flag.ExitOnError)
	tenant := flags.String("tenant", "demo", "tenant scope")
	register := flags.Bool("register", false, "register a source instead of listing")
	company := flags.String("company", "", "peer company identifier")
	category := flags.String("category", "", "emissions category")
	title := flags.String("title", "", "document title")
	location := flags.String("location", "", "document URL or seed:// marker")
	if err := flags.Parse(args); err != nil {
		zap.S().Fatalf("parse sources flags: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("wire services: %v", err)
	}
	defer cleanup()

	if *register {
		src, err := a.registry.Register(ctx, model.DisclosureSource{
			TenantID:  *tenant,
			CompanyID: *company,
			Category:  *category,
			Title:     *title,
			Location:  *location,
		})
		if err != nil {
			zap.S().Fatalf("register source: %v", err)
		}
		printJSON(src)
		return
	}

	sources, err := a.registry.List(ctx, *tenant)
	if err != nil {
		zap.S().Fatalf("list sources: %v", err)
	}
	printJSON(sources)
}

func ingestCmd(cfg *config.Config, args []string) {
	flags := flag.NewFlagSet("ingest", flag.ExitOnError)
	tenant := flags.String("tenant", "demo", "tenant to ingest")
	if err := flags.Parse(args); err != nil {
		zap.S().Fatalf("parse ingest flags: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("wire services: %v", err)
	}
	defer cleanup()

	result, err := a.ingest.Run(ctx, *tenant)
	if err != nil {
		zap.S().Fatalf("ingestion failed: %v", err)
	}
	printJSON(result)
}

func generateCmd(cfg *config.Config, args []string) {
	flags := flag.NewFlagSet("generate", flag.ExitOnError)
	tenant := flags.String("tenant", "demo", "tenant to generate for")
	if err := flags.Parse(args); err != nil {
		zap.S().Fatalf("parse generate flags: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("wire services: %v", err)
	}
	defer cleanup()

	generated, err := a.cache.GenerateBatch(ctx, *tenant)
	if err != nil {
		zap.S().Fatalf("batch generation failed: %v", err)
	}
	printJSON(map[string]int{"generated": generated})
}

func recommendCmd(cfg *config.Config, args []string) {
	flags := flag.NewFlagSet("recommend", flag.ExitOnError)
	tenant := flags.String("tenant", "demo", "tenant scope")
	supplier := flags.String("supplier", "", "benchmark id or supplier id")
	if err := flags.Parse(args); err != nil {
		zap.S().Fatalf("parse recommend flags: %v", err)
	}
	if *supplier == "" {
		zap.S().Fatal("recommend requires -supplier")
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, cleanup, err := buildApp(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("wire services: %v", err)
	}
	defer cleanup()

	benchmark, err := a.store.GetBenchmark(ctx, *tenant, *supplier)
	if err != nil {
		zap.S().Fatalf("resolve supplier %q: %v", *supplier, err)
	}
	rec, err := a.cache.GetOrGenerate(ctx, *benchmark)
	if err != nil {
		zap.S().Fatalf("recommendation failed: %v", err)
	}
	printJSON(recommend.BuildDeepDive(*benchmark, *rec))
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		zap.S().Fatalf("encode output: %v", err)
	}
}

func printUsage() {
	fmt.Println("Usage: carbonpeer <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  serve      Run the HTTP API")
	fmt.Println("  seed       Load demo benchmarks and seed disclosure sources")
	fmt.Println("  sources    List registered sources (use -register to add one)")
	fmt.Println("  ingest     Acquire, chunk, and embed all registered sources")
	fmt.Println("  generate   Regenerate recommendations for every benchmark")
	fmt.Println("  recommend  Print one supplier's deep-dive recommendation")
}
