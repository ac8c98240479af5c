// Command localrag-ingest is the bulk-ingestion CLI surface of §6: walk a
// file or directory and ingestFile() every matching entry, with
// dry-run/skip-existing/fail-fast controls for large corpora.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/localrag/go-localrag/chunker"
	"github.com/localrag/go-localrag/config"
	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/ingest"
	"github.com/localrag/go-localrag/vectorstore"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "localrag-ingest",
		Short: "Bulk-ingest files into the local RAG vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), v)
		},
	}

	flags := cmd.Flags()
	flags.String("path", "", "file or directory to ingest (required)")
	flags.String("base-dir", "", "root for absolute-path validation")
	flags.String("db-path", config.DefaultDBPath, "vector store directory")
	flags.String("cache-dir", config.DefaultCacheDir, "model cache directory (accepted but not used)")
	flags.String("model", config.DefaultModelName, "embedding model identifier")
	flags.Int64("max-file-size", config.DefaultMaxFileSize, "maximum per-file size in bytes")
	flags.Int("batch-size", 8, "embedding batch size (accepted but not used)")
	flags.String("extensions", "", "comma-separated extension allowlist, e.g. md,txt,pdf")
	flags.String("exclude", "", "comma-separated substrings; matching paths are skipped")
	flags.Bool("no-recursive", false, "do not recurse into subdirectories")
	flags.Bool("recursive", true, "recurse into subdirectories (default)")
	flags.Bool("include-hidden", false, "include dotfiles and dot-directories")
	flags.Int("max-files", 0, "stop after this many files (0 = unlimited)")
	flags.Bool("skip-existing", false, "skip files already listed in the store")
	flags.Bool("force", false, "re-ingest files even if already present")
	flags.Bool("dry-run", false, "list files that would be ingested without ingesting them")
	flags.Int("progress-every", 10, "log progress every N files")
	flags.Bool("fail-fast", false, "abort on the first ingestion error")
	flags.Bool("fail-on-error", false, "exit 1 if any file failed, after processing all files")
	flags.Bool("json", false, "emit a JSON summary to stdout instead of a text report")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	return cmd
}

type fileOutcome struct {
	Path       string `json:"path"`
	ChunkCount int    `json:"chunkCount,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

func runIngest(ctx context.Context, v *viper.Viper) error {
	path := v.GetString("path")
	if path == "" {
		return fmt.Errorf("--path is required")
	}

	baseDir := v.GetString("base-dir")
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		baseDir = wd
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	files, err := collectFiles(absPath, v)
	if err != nil {
		return err
	}

	if maxFiles := v.GetInt("max-files"); maxFiles > 0 && len(files) > maxFiles {
		files = files[:maxFiles]
	}

	if v.GetBool("dry-run") {
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	}

	model := embedding.NewOllamaEmbedding(v.GetString("model"))
	ch := chunker.New(model)

	store, err := vectorstore.Open(v.GetString("db-path"), vectorstore.Config{HybridWeight: config.DefaultHybridWeight})
	if err != nil {
		return err
	}
	defer store.Close()

	coordinator := ingest.NewCoordinator(store, model, ch, baseDir, v.GetString("db-path"), v.GetInt64("max-file-size"))

	existing := make(map[string]bool)
	if v.GetBool("skip-existing") {
		for _, f := range store.ListFiles() {
			existing[f.FilePath] = true
		}
	}

	var outcomes []fileOutcome
	progressEvery := v.GetInt("progress-every")
	failFast := v.GetBool("fail-fast")
	hadError := false

	for i, f := range files {
		if existing[f] && !v.GetBool("force") {
			outcomes = append(outcomes, fileOutcome{Path: f, Skipped: true})
			continue
		}

		out, err := coordinator.IngestFile(ctx, f)
		if err != nil {
			hadError = true
			outcomes = append(outcomes, fileOutcome{Path: f, Error: err.Error()})
			log.Error().Str("path", f).Err(err).Msg("ingestion failed")
			if failFast {
				break
			}
			continue
		}
		outcomes = append(outcomes, fileOutcome{Path: f, ChunkCount: out.ChunkCount})

		if progressEvery > 0 && (i+1)%progressEvery == 0 {
			log.Info().Int("processed", i+1).Int("total", len(files)).Msg("ingestion progress")
		}
	}

	report(outcomes, v.GetBool("json"))

	if hadError && v.GetBool("fail-on-error") {
		os.Exit(1)
	}
	return nil
}

func collectFiles(root string, v *viper.Viper) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	var allowExt map[string]bool
	if raw := v.GetString("extensions"); raw != "" {
		allowExt = make(map[string]bool)
		for _, e := range strings.Split(raw, ",") {
			allowExt["."+strings.TrimPrefix(strings.TrimSpace(e), ".")] = true
		}
	}
	var excludes []string
	if raw := v.GetString("exclude"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			if e = strings.TrimSpace(e); e != "" {
				excludes = append(excludes, e)
			}
		}
	}
	recursive := v.GetBool("recursive") && !v.GetBool("no-recursive")
	includeHidden := v.GetBool("include-hidden")

	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			if !includeHidden && strings.HasPrefix(fi.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !includeHidden && strings.HasPrefix(fi.Name(), ".") {
			return nil
		}
		if allowExt != nil && !allowExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		for _, ex := range excludes {
			if strings.Contains(path, ex) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func report(outcomes []fileOutcome, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		_ = enc.Encode(outcomes)
		return
	}

	succeeded, skipped, failed := 0, 0, 0
	for _, o := range outcomes {
		switch {
		case o.Error != "":
			failed++
		case o.Skipped:
			skipped++
		default:
			succeeded++
		}
	}
	fmt.Printf("ingested=%d skipped=%d failed=%d total=%d (%s)\n",
		succeeded, skipped, failed, len(outcomes), time.Now().Format(time.RFC3339))
}
