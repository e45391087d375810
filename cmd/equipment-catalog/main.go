package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"equipment-catalog/internal/app"
	"equipment-catalog/internal/catalog"
	"equipment-catalog/internal/config"
	"equipment-catalog/internal/export"
	"equipment-catalog/internal/sftpclient"
	"equipment-catalog/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	logger := app.NewLogger(cfg, os.Stderr)

	cmd := "build"
	var args []string
	if len(os.Args) > 1 {
		cmd = os.Args[1]
		args = os.Args[2:]
	}

	must(run(context.Background(), cfg, logger, cmd, args, os.Stdout))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "build":
		svc := catalog.NewBuildService(cfg, logger)
		res, err := svc.Build(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %d equipment entries to %s\n", len(res.Entries), res.RelativePath)
	case "convert":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		input := fs.String("input", "", "raw compendium json path")
		output := fs.String("output", "", "catalog json path (default CATALOG_DEST)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if strings.TrimSpace(*input) == "" {
			return fmt.Errorf("--input is required")
		}
		dest := *output
		if dest != "" && !filepath.IsAbs(dest) {
			dest = filepath.Join(cfg.ProjectRoot, dest)
		}
		svc := catalog.NewBuildService(cfg, logger)
		res, err := svc.BuildFromFile(*input, dest)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %d equipment entries to %s\n", len(res.Entries), res.RelativePath)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		out := fs.String("out", "", "output xlsx path")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if strings.TrimSpace(*out) == "" {
			return fmt.Errorf("--out is required")
		}
		entries, err := catalog.ReadCatalog(cfg.Destination)
		if err != nil {
			return err
		}
		if err := export.EntriesToXLSX(entries, *out); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "exported %d entries to %s\n", len(entries), *out)
	case "export:sqlite":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		dbPath := fs.String("db", cfg.DBPath, "sqlite database path")
		if err := fs.Parse(args); err != nil {
			return err
		}
		entries, err := catalog.ReadCatalog(cfg.Destination)
		if err != nil {
			return err
		}
		db, err := storage.Open(*dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		traceID, err := catalog.SaveSnapshot(db, entries, cfg.RelativeToRoot(cfg.Destination))
		if err != nil {
			return err
		}
		logger.Info("snapshot saved", "trace_id", traceID, "db", *dbPath, "entries", len(entries))
		fmt.Fprintf(stdout, "stored %d entries in %s\n", len(entries), cfg.RelativeToRoot(*dbPath))
	case "publish":
		if _, err := os.Stat(cfg.Destination); err != nil {
			return err
		}
		upCfg := sftpclient.FromConfig(cfg)
		remoteName := filepath.Base(cfg.Destination)
		if err := sftpclient.UploadFile(ctx, upCfg, cfg.Destination, remoteName); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "uploaded %s to sftp://%s:%d%s/%s\n", cfg.RelativeToRoot(cfg.Destination), upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	case "help", "-h", "--help":
		usage(stdout)
	default:
		usage(os.Stderr)
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: equipment-catalog [command]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  build (default)   fetch the compendium and write CATALOG_DEST")
	fmt.Fprintln(w, "  convert --input=raw.json [--output=path]")
	fmt.Fprintln(w, "  export:xlsx --out=./out/equipment.xlsx")
	fmt.Fprintln(w, "  export:sqlite [--db=data/catalog.db]")
	fmt.Fprintln(w, "  publish")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
