package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/vgomes/discografia-dl/internal/config"
	"github.com/vgomes/discografia-dl/internal/download"
	"github.com/vgomes/discografia-dl/internal/report"
)

func main() {
	var (
		playlistFlag = flag.String("playlist", "", "Playlist URL or numeric id to download")
		authorFlag   = flag.String("author", "", "Author name whose full catalog to download")
		mergeFlag    = flag.String("merge", "", "Comma-separated report files to merge (no downloading)")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		formatFlag   = flag.String("format", "", "Report format: csv or xlsx (overrides config)")
		noReportFlag = flag.Bool("no-report", false, "Skip writing metadata/audit reports")
		dryRunFlag   = flag.Bool("dry-run", false, "Extract and write the metadata report without downloading")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	if *playlistFlag == "" && *authorFlag == "" && *mergeFlag == "" {
		fmt.Println("discografia-dl - Download music from Discografia Brasileira")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  discografia-dl -playlist <URL or id> [options]")
		fmt.Println("  discografia-dl -author <name> [options]")
		fmt.Println("  discografia-dl -merge <report,report,...> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: discografia-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	switch strings.ToLower(*formatFlag) {
	case "":
	case "csv":
		settings.ReportXLSX = false
	case "xlsx":
		settings.ReportXLSX = true
	default:
		fmt.Fprintf(os.Stderr, "Unknown report format %q (want csv or xlsx)\n", *formatFlag)
		os.Exit(1)
	}
	if *noReportFlag {
		settings.SaveReport = false
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	if *mergeFlag != "" {
		runMerge(*mergeFlag, settings.OutputDir)
		return
	}

	var bar *progressbar.ProgressBar
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Total > 0 {
			if bar == nil {
				bar = progressbar.Default(int64(event.Total), "downloading")
			}
			bar.Set(event.Completed)
		}

		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case download.LevelError:
			prefix = "[ERROR] "
		case download.LevelWarning:
			prefix = "[WARN]  "
		case download.LevelSuccess:
			prefix = "[OK]    "
		case download.LevelInfo:
			prefix = "[INFO]  "
		}

		fmt.Println(prefix + event.Message)
	})
	manager.DryRun = *dryRunFlag

	var (
		result *download.Result
		err    error
	)
	if *playlistFlag != "" {
		playlistID, idErr := download.PlaylistID(*playlistFlag)
		if idErr != nil {
			fmt.Fprintf(os.Stderr, "%v\n", idErr)
			os.Exit(1)
		}
		result, err = manager.RunPlaylist(ctx, playlistID)
	} else {
		result, err = manager.RunAuthor(ctx, *authorFlag)
	}

	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nRun cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	if *dryRunFlag {
		fmt.Printf("Dry run done. Extracted %d tracks, nothing downloaded.\n", len(result.Records))
	} else {
		fmt.Printf("Done. Downloaded %d/%d tracks into %s\n", result.Downloaded, len(result.Records), settings.OutputDir)
	}
	if result.MetadataReport != "" {
		fmt.Printf("Metadata report: %s\n", result.MetadataReport)
	}
	if result.CompleteReport != "" {
		fmt.Printf("Audit report: %s\n", result.CompleteReport)
	}
}

func runMerge(list, outDir string) {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}

	outPath, err := report.Merge(paths, outDir, func(format string, args ...any) {
		fmt.Printf("[WARN]  "+format+"\n", args...)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Merge failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Merged report: %s\n", outPath)
}
