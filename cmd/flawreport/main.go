// Flawreport - AI Flaw Report processing tool
//
// Typical invocations:
//
//	PROCESS A SUBMISSION (validate, convert, store):
//	  flawreport -input report.json -incident yes -threat-actor no -out ./reports
//
//	VALIDATE ONLY:
//	  flawreport -input report.json -incident no -threat-actor no -validate-only
//
//	LIST SELECTABLE AI SYSTEMS (priority models + hub models):
//	  flawreport -list-systems
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/aiflawlab/sdk/pkg/adapters/atlas"
	"github.com/aiflawlab/sdk/pkg/adapters/avid"
	"github.com/aiflawlab/sdk/pkg/adapters/cert"
	"github.com/aiflawlab/sdk/pkg/audit"
	"github.com/aiflawlab/sdk/pkg/core"
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
	"github.com/aiflawlab/sdk/pkg/kb"
	"github.com/aiflawlab/sdk/pkg/metrics"
	"github.com/aiflawlab/sdk/pkg/modelhub"
	"github.com/aiflawlab/sdk/pkg/pipeline"
	"github.com/aiflawlab/sdk/pkg/recipients"
	"github.com/aiflawlab/sdk/pkg/report"
	"github.com/aiflawlab/sdk/pkg/storage"
	"github.com/aiflawlab/sdk/pkg/submission"
)

const (
	appName    = "flawreport"
	appVersion = "1.0.0"
)

func main() {
	input := flag.String("input", "", "Path to submission JSON (or raw JSON string)")
	incident := flag.String("incident", "", "Does the report involve a real-world incident? (yes/no, empty = unanswered)")
	threatActor := flag.String("threat-actor", "", "Does the report involve a threat actor? (yes/no, empty = unanswered)")
	kbPath := flag.String("kb", "", "Path to the AI-system knowledge base JSON")
	outDir := flag.String("out", "", "Directory to store processed reports in")
	sqlitePath := flag.String("sqlite", "", "SQLite database path (instead of -out)")
	formats := flag.String("formats", "avid,cert,mitre-atlas", "Comma-separated converter list")
	auditPath := flag.String("audit", "", "Audit trail file (JSON lines)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	githubToken := flag.String("github-token", "", "GitHub token for tracker issues (or GITHUB_TOKEN env)")
	githubRepo := flag.String("github-repo", "", "Tracker repository as owner/repo")
	validateOnly := flag.Bool("validate-only", false, "Classify and validate, do not convert or store")
	listSystems := flag.Bool("list-systems", false, "Print the selectable AI-system options")
	verbose := flag.Bool("verbose", false, "Verbose output")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	logger := core.NewDefaultLogger(appName, core.LogLevelInfo)
	if *verbose {
		logger.SetLevel(core.LogLevelDebug)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *listSystems {
		printSystemOptions(ctx, logger)
		os.Exit(0)
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "error: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	sub, err := submission.LoadAny(*input)
	if err != nil {
		fatalf("loading submission: %v", err)
	}

	involvesIncident, err := parseAnswer(*incident)
	if err != nil {
		fatalf("-incident: %v", err)
	}
	involvesThreatActor, err := parseAnswer(*threatActor)
	if err != nil {
		fatalf("-threat-actor: %v", err)
	}

	if *validateOnly {
		categories := report.Classify(involvesIncident, involvesThreatActor)
		required := report.RequiredFields(categories)
		missing := report.Validate(sub, required)
		fmt.Printf("Categories: %s\n", joinCategories(categories))
		if len(missing) == 0 {
			fmt.Println("Submission is complete.")
			os.Exit(0)
		}
		fmt.Printf("Missing required fields:\n")
		for _, f := range missing {
			fmt.Printf("  - %s\n", f)
		}
		os.Exit(1)
	}

	cfg := &pipeline.Config{
		Logger:     logger,
		Converters: selectConverters(*formats),
	}

	if *kbPath != "" {
		store, err := kb.LoadFile(*kbPath)
		if err != nil {
			fatalf("loading knowledge base: %v", err)
		}
		cfg.Lookup = store
	}

	if *auditPath != "" {
		trail, err := audit.NewFileLogger(*auditPath)
		if err != nil {
			fatalf("opening audit trail: %v", err)
		}
		defer trail.Close()
		cfg.Audit = trail
	}

	if *metricsAddr != "" {
		cfg.Metrics = metrics.New(nil)
		go func() {
			logger.Info("serving metrics on %s/metrics", *metricsAddr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", cfg.Metrics.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	switch {
	case *sqlitePath != "":
		provider, err := storage.NewSQLiteProvider(*sqlitePath, nil)
		if err != nil {
			fatalf("opening SQLite storage: %v", err)
		}
		defer provider.Close()
		cfg.Store = provider
		cfg.StoreName = "sqlite"
	case *outDir != "":
		provider, err := storage.NewLocalProvider(*outDir, nil)
		if err != nil {
			fatalf("opening local storage: %v", err)
		}
		defer provider.Close()
		cfg.Store = provider
		cfg.StoreName = "local"
	}

	token := *githubToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if *githubRepo != "" {
		owner, repo, ok := strings.Cut(*githubRepo, "/")
		if !ok {
			fatalf("-github-repo must be owner/repo, got %q", *githubRepo)
		}
		cfg.Notifier = recipients.NewGitHubNotifier(ctx, token, owner, repo)
	}

	p := pipeline.New(cfg)
	res, err := p.Process(ctx, sub, involvesIncident, involvesThreatActor)
	if err != nil {
		if ve, ok := sdkerrors.AsValidation(err); ok {
			fmt.Fprintf(os.Stderr, "submission incomplete, missing required fields:\n")
			for _, f := range ve.MissingFields {
				fmt.Fprintf(os.Stderr, "  - %s\n", f)
			}
			os.Exit(1)
		}
		fatalf("processing submission: %v", err)
	}

	printResult(res, *outDir)
	if len(res.ConversionErrors) > 0 {
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func parseAnswer(s string) (report.Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return report.Unanswered, nil
	case "yes", "y", "true":
		return report.Yes, nil
	case "no", "n", "false":
		return report.No, nil
	default:
		return report.Unanswered, fmt.Errorf("want yes, no, or empty, got %q", s)
	}
}

func selectConverters(formats string) []core.Converter {
	available := map[string]core.Converter{
		"avid":        &avid.Converter{},
		"cert":        &cert.Converter{},
		"mitre-atlas": &atlas.Converter{},
	}
	var selected []core.Converter
	for _, name := range strings.Split(formats, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		conv, ok := available[name]
		if !ok {
			fatalf("unknown format %q (want avid, cert, mitre-atlas)", name)
		}
		selected = append(selected, conv)
	}
	return selected
}

func printResult(res *pipeline.Result, outDir string) {
	fmt.Printf("Report %s processed.\n", res.ReportID)
	fmt.Printf("  Categories: %s\n", joinCategories(res.Categories))
	if res.StorageLocation != "" {
		fmt.Printf("  Stored at:  %s\n", res.StorageLocation)
	}
	for name := range res.Conversions {
		fmt.Printf("  Converted:  %s\n", name)
	}
	for name, err := range res.ConversionErrors {
		fmt.Fprintf(os.Stderr, "  Conversion %s failed: %v\n", name, err)
	}
	if len(res.Recipients) > 0 {
		fmt.Println("  Recommended recipients:")
		for _, r := range res.Recipients {
			fmt.Printf("    - %s (%s): %s\n", r.Name, r.Type, r.Contact)
		}
	}
	if res.TrackerURL != "" {
		fmt.Printf("  Tracker issue: %s\n", res.TrackerURL)
	}

	// Without a storage provider the documents still land next to the user.
	if outDir == "" {
		return
	}
	dir := filepath.Join(outDir, res.ReportID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating %s: %v\n", dir, err)
		return
	}
	writeDocument(filepath.Join(dir, "report.jsonld.json"), res.Document)
	for name, doc := range res.Conversions {
		writeDocument(filepath.Join(dir, name+".json"), doc)
	}
}

func writeDocument(path string, doc any) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding %s: %v\n", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", path, err)
	}
}

func printSystemOptions(ctx context.Context, logger core.Logger) {
	client := modelhub.NewClient(modelhub.WithLogger(logger))
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	options := client.SystemOptions(ctx, 50)
	for _, opt := range options {
		fmt.Println(opt)
	}
}

func joinCategories(categories []report.Category) string {
	if len(categories) == 0 {
		return "(none)"
	}
	labels := make([]string, 0, len(categories))
	for _, c := range categories {
		labels = append(labels, c.String())
	}
	return strings.Join(labels, ", ")
}
