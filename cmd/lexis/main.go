// Command lexis resolves Greek surface forms against the dictionary
// graph and prints one JSON result per form. Forms come from the
// command line, a text file, a URL (readable article text), or stdin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/hellenike/lexis/pkg/cachedb"
	"github.com/hellenike/lexis/pkg/config"
	"github.com/hellenike/lexis/pkg/lexicon"
	"github.com/hellenike/lexis/pkg/resolve"
	"github.com/hellenike/lexis/pkg/store"
)

const maxBodySize = 10 * 1024 * 1024

func main() {
	configFlag := flag.String("config", "", "Path to YAML config file (env vars override)")
	dictFlag := flag.String("dict", "", "Dictionary name (overrides config)")
	fileFlag := flag.String("file", "", "Path to a Greek text file to resolve")
	urlFlag := flag.String("url", "", "URL of a page whose article text should be resolved")
	cacheFlag := flag.String("cache", "", "Path to a SQLite resolution cache reused across runs")
	verifyFlag := flag.Bool("verify", false, "Verify the dictionary graph shape and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dictFlag != "" {
		cfg.Dictionary = *dictFlag
	}
	log := newLogger(cfg.Log)

	st, err := store.NewNeo4j(ctx, store.Neo4jOptions{
		URI:        cfg.Store.URI,
		User:       cfg.Store.User,
		Password:   cfg.Store.Password,
		Database:   cfg.Store.Database,
		MaxRetries: cfg.Store.MaxRetries,
		Logger:     log,
	})
	if err != nil {
		log.Error("connect to lexicon store", "uri", cfg.Store.URI, "error", err)
		os.Exit(1)
	}
	defer st.Close(context.Background())

	if *verifyFlag {
		if err := verify(ctx, st, cfg.Dictionary, log); err != nil {
			os.Exit(1)
		}
		return
	}

	forms, err := gatherForms(ctx, *fileFlag, *urlFlag, flag.Args())
	if err != nil {
		log.Error("gather input forms", "error", err)
		os.Exit(1)
	}
	if len(forms) == 0 {
		log.Error("no input: pass forms as arguments, or use -file, -url, or pipe text on stdin")
		os.Exit(1)
	}

	opts := resolve.Options{
		Dictionary:        cfg.Dictionary,
		BatchSize:         cfg.Resolve.BatchSize,
		Concurrency:       cfg.Resolve.Concurrency,
		MaxHops:           cfg.Resolve.MaxHops,
		SubstantiveMinLen: cfg.Resolve.SubstantiveMinLen,
		MinContent:        cfg.Resolve.MinContent,
		ContainsLimit:     cfg.Resolve.ContainsLimit,
		StoreTimeout:      cfg.Store.Timeout,
		Logger:            log,
	}
	if *cacheFlag != "" {
		cache, err := cachedb.Open(*cacheFlag)
		if err != nil {
			log.Error("open resolution cache", "path", *cacheFlag, "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		opts.Persistent = cache
	}

	session := resolve.NewSession(st, opts)

	start := time.Now()
	results := session.ResolveAll(ctx, forms)

	enc := json.NewEncoder(os.Stdout)
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			log.Error("write result", "error", err)
			os.Exit(1)
		}
	}

	rep := session.Report()
	log.Info("resolution finished",
		"forms", len(forms),
		"keys", rep.Keys,
		"unresolved", len(rep.Unresolved),
		"elapsed", time.Since(start))
	if len(rep.UnresolvedFunctionWords) > 0 {
		log.Warn("critical function words unresolved", "keys", rep.UnresolvedFunctionWords)
	}
}

func verify(ctx context.Context, st *store.Neo4jStore, dictionary string, log *slog.Logger) error {
	stats, err := st.Verify(ctx, dictionary)
	if err != nil {
		log.Error("verify dictionary graph", "dictionary", dictionary, "error", err)
		return err
	}
	if stats.Dictionaries == 0 {
		log.Error("dictionary not found in graph; run the importer first", "dictionary", dictionary)
		return fmt.Errorf("dictionary %q not imported", dictionary)
	}
	log.Info("dictionary graph verified",
		"dictionary", dictionary,
		"lemmas", stats.Lemmas,
		"entries", stats.Entries)
	return nil
}

// gatherForms collects surface forms from the first available input:
// explicit arguments, a text file, a URL, or stdin.
func gatherForms(ctx context.Context, file, pageURL string, args []string) ([]string, error) {
	switch {
	case len(args) > 0:
		return args, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
		return lexicon.Tokenize(string(data)), nil
	case pageURL != "":
		text, err := fetchArticleText(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		return lexicon.Tokenize(text), nil
	default:
		if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			return lexicon.Tokenize(string(data)), nil
		}
		return nil, nil
	}
}

// fetchArticleText downloads a page and extracts its readable article
// text, so whole chapters of digitized texts can be resolved straight
// from the hosting site.
func fetchArticleText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch url: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if len(body) >= maxBodySize {
		return "", fmt.Errorf("response exceeds %d byte limit", maxBodySize)
	}

	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsed)
	if err != nil {
		return "", fmt.Errorf("extract article text: %w", err)
	}
	return article.TextContent, nil
}
