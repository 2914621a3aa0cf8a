package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/texarc/texarc/internal/archive"
	"github.com/texarc/texarc/internal/blz"
	"github.com/texarc/texarc/internal/cache"
	"github.com/texarc/texarc/internal/manifest"
	"github.com/texarc/texarc/internal/utils"
)

var (
	rebuildOutput   string
	rebuildCompress bool
	rebuildNoCache  bool
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <archive_tex.yaml>",
	Short: "Build a manifest and its resource directory back into an archive pair",
	Long: `Rebuild reads the YAML manifest and the adjacent resource directory,
recomputes the data-file layout from scratch, and writes a byte-correct
'.bin' plus '_info.bin' pair.

With --blz the resources are read as .bcres and BLZ-recompressed; a
compression cache keeps unmodified resources from being recompressed on
every run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		input := args[0]

		output := rebuildOutput
		if output == "" {
			if strings.HasSuffix(input, manifestSuffix) {
				output = siblingPath(input, manifestSuffix, ".bin")
			} else {
				output = siblingPath(input, ".yaml", ".bin")
			}
		}
		infoOutput := infoPathFor(output)
		payloadDir := siblingPath(input, ".yaml", "")

		slog.Info("Rebuilding archive", "input", input, "resources", payloadDir, "output", output, "info", infoOutput)

		manifestBytes, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		m, err := manifest.Decode(manifestBytes)
		if err != nil {
			return err
		}

		store := manifest.NewStore(payloadDir, payloadExt(rebuildCompress))
		payloads, err := store.ReadPayloads(m)
		if err != nil {
			return fmt.Errorf("reading resource files: %w", err)
		}

		if rebuildCompress {
			if err := compressPayloads(payloads); err != nil {
				return err
			}
		}

		infoBytes, dataBytes, err := archive.Build(payloads, uint32(cfg.Alignment))
		if err != nil {
			return fmt.Errorf("rebuilding archive: %w", err)
		}

		// Both buffers exist in full before either file is touched.
		if err := os.WriteFile(output, dataBytes, 0644); err != nil {
			return fmt.Errorf("writing data file: %w", err)
		}
		if err := os.WriteFile(infoOutput, infoBytes, 0644); err != nil {
			return fmt.Errorf("writing info file: %w", err)
		}

		fmt.Printf("Entries packed: %d\n", len(payloads))
		fmt.Printf("Data file size: %s\n", utils.Bytes(int64(len(dataBytes))))
		fmt.Printf("Info file size: %s\n", utils.Bytes(int64(len(infoBytes))))
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))

		return nil
	},
}

// compressPayloads BLZ-encodes every payload in place, consulting the
// compression cache so unchanged resources reuse their previous encoding.
func compressPayloads(payloads []archive.Payload) error {
	ctx := context.Background()

	var store *cache.Cache
	if !rebuildNoCache {
		var err error
		store, err = cache.Open(cfg.CachePath)
		if err != nil {
			slog.Warn("Compression cache unavailable, recompressing everything", "path", cfg.CachePath, "error", err)
		} else {
			defer store.Close()
		}
	}

	progress := utils.NewProgress(len(payloads), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))
	hits := 0

	for i := range payloads {
		p := &payloads[i]
		progress.Update(i+1, p.Name)

		rawHash := cache.HashPayload(p.Data)

		if store != nil {
			compressed, ok, err := store.Lookup(ctx, p.Name, rawHash)
			if err != nil {
				return fmt.Errorf("cache lookup for %q: %w", p.Name, err)
			}
			if ok {
				p.Data = compressed
				hits++
				continue
			}
		}

		compressed, err := blz.Encode(p.Data)
		if err != nil {
			if errors.Is(err, blz.ErrNotCompressible) {
				slog.Debug("Storing resource uncompressed", "name", p.Name, "size", len(p.Data))
				continue
			}
			return fmt.Errorf("compressing entry %d %q: %w", i, p.Name, err)
		}

		if store != nil {
			if err := store.Store(ctx, p.Name, rawHash, compressed); err != nil {
				return fmt.Errorf("caching compressed %q: %w", p.Name, err)
			}
		}
		p.Data = compressed
	}

	progress.Finish()
	slog.Debug("Compression finished", "entries", len(payloads), "cache_hits", hits)

	return nil
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
	rebuildCmd.Flags().StringVarP(&rebuildOutput, "output", "o", "", "data file output path (default derived from input)")
	rebuildCmd.Flags().BoolVarP(&rebuildCompress, "blz", "b", false, "BLZ-recompress resources while packing")
	rebuildCmd.Flags().BoolVar(&rebuildNoCache, "no-cache", false, "skip the compression cache")
}
