package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"vls-mesh/internal/batch"
	"vls-mesh/internal/config"
	"vls-mesh/internal/gene"
	"vls-mesh/internal/texture"
)

// batchFlags are shared by the batch and watch commands.
type batchFlags struct {
	baseDir, geneDir, outputDir string
	view                        string
	workers, size               int
	noPreview                   bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.baseDir, "base", "", "Base directory (default: auto-detect a genes/ directory)")
	cmd.Flags().StringVar(&f.geneDir, "genes", "", "Directory of .gene files (default: <base>/genes)")
	cmd.Flags().StringVar(&f.outputDir, "output", "", "Output directory (default: <base>/out)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	cmd.Flags().IntVar(&f.size, "size", 0, "Preview edge in pixels")
	cmd.Flags().BoolVar(&f.noPreview, "no-preview", false, "Skip WebP previews")
	addViewFlag(cmd, &f.view)
}

func (f *batchFlags) config(a *app, cmd *cobra.Command) (config.Config, batch.Config) {
	cfg := a.resolve(cmd, config.Flags{
		BaseDir:   f.baseDir,
		GeneDir:   f.geneDir,
		OutputDir: f.outputDir,
		Workers:   f.workers,
		Size:      f.size,
		View:      f.view,
		NoPreview: f.noPreview,
	})
	bc := batch.Config{
		GeneDir:     cfg.GeneDir,
		OutputDir:   cfg.OutputDir,
		Decoder:     decoderFor(cfg),
		View:        cfg.PreviewView,
		PreviewSize: cfg.PreviewSize,
		PreviewFill: cfg.PreviewFill,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		NoPreview:   cfg.NoPreview,
	}
	if cfg.TextureDir != "" {
		idx := texture.BuildIndex(cfg.TextureDir)
		bc.TexResolver = texture.NewCache(idx)
		fmt.Fprintf(cmd.OutOrStdout(), "Textures: %d indexed\n", idx.Len())
	}
	return cfg, bc
}

func (a *app) batchCmd() *cobra.Command {
	var f batchFlags
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Decode every .gene file under the gene directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, bc := f.config(a, cmd)
			paths, err := gene.Walk(cfg.GeneDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, "No .gene files found.")
				return nil
			}

			fmt.Fprintf(out, "Files: %d, Workers: %d\n", len(paths), cfg.Workers)
			fmt.Fprintf(out, "Output: %s\n", cfg.OutputDir)
			fmt.Fprintln(out, "------------------------------------------------------------")

			start := time.Now()
			results := batch.Run(bc, paths)
			fmt.Fprintln(out, "------------------------------------------------------------")
			fmt.Fprintf(out, "Done in %.1fs\n", time.Since(start).Seconds())

			m := batch.Summarize(results)
			fmt.Fprintf(out, "Decoded: %d/%d (%d with warnings)\n", m.Succeeded, m.Total, m.Warned)
			printFailures(out, results)

			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return fmt.Errorf("mkdir %s: %w", cfg.OutputDir, err)
			}
			manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
			if err := batch.WriteManifest(manifestPath, results); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: manifest write failed: %v\n", err)
			} else {
				fmt.Fprintf(out, "Manifest: %s\n", manifestPath)
			}

			if m.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", m.Failed, m.Total)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printFailures(w io.Writer, results []batch.Result) {
	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return
	}
	fmt.Fprintf(w, "\nFailed (%d):\n", len(failed))
	for _, r := range failed[:min(len(failed), 20)] {
		fmt.Fprintf(w, "  %s: %s\n", r.Name, r.Error)
	}
}

func (a *app) watchCmd() *cobra.Command {
	var (
		f      batchFlags
		settle time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-decode .gene files as they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, bc := f.config(a, cmd)
			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s -> %s\n", cfg.GeneDir, cfg.OutputDir)
			return gene.Watch(ctx, cfg.GeneDir, settle, func(path string) {
				r := batch.ProcessFile(bc, path)
				if !r.Success {
					fmt.Fprintf(out, "  %s: %s\n", r.Name, r.Error)
					return
				}
				fmt.Fprintf(out, "  %s: %d vertices, %d triangles, %d warnings\n",
					r.Name, r.Vertices, r.Triangles, len(r.Warnings))
			})
		},
	}
	f.register(cmd)
	cmd.Flags().DurationVar(&settle, "settle", gene.DefaultSettle, "Quiet period before a changed file is decoded")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
