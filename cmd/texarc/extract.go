package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/texarc/texarc/internal/archive"
	"github.com/texarc/texarc/internal/blz"
	"github.com/texarc/texarc/internal/manifest"
	"github.com/texarc/texarc/internal/utils"
)

var (
	extractOutput     string
	extractClean      bool
	extractDecompress bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive.bin>",
	Short: "Extract an info+data archive pair into a manifest and resource files",
	Long: `Extract parses the archive's companion '_info.bin' table, slices every
resource out of the data file, and writes an editable YAML manifest plus one
resource file per entry.

With --blz the resources are additionally BLZ-decompressed and written as
.bcres instead of .bcrez.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		input := args[0]

		infoPath := infoPathFor(input)

		manifestPath := extractOutput
		if manifestPath == "" {
			manifestPath = siblingPath(input, ".bin", manifestSuffix)
		} else if !strings.HasSuffix(manifestPath, manifestSuffix) {
			slog.Warn("Output path does not end on the manifest suffix", "path", manifestPath, "suffix", manifestSuffix)
		}
		payloadDir := siblingPath(manifestPath, ".yaml", "")

		slog.Info("Extracting archive", "input", input, "info", infoPath, "manifest", manifestPath)

		dataBytes, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading data file: %w", err)
		}
		infoBytes, err := os.ReadFile(infoPath)
		if err != nil {
			return fmt.Errorf("reading info file (expected next to the data file): %w", err)
		}

		table, payloads, err := archive.Extract(infoBytes, dataBytes)
		if err != nil {
			return fmt.Errorf("extracting archive: %w", err)
		}

		if err := ensureCleanDir(payloadDir, extractClean); err != nil {
			return err
		}

		m := manifest.FromTable(table)

		if extractDecompress {
			progress := utils.NewProgress(len(m.Records), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))
			for i, r := range m.Records {
				progress.Update(i+1, r.Name)
				decoded, err := blz.Decode(payloads[r.Name])
				if err != nil {
					return fmt.Errorf("decompressing entry %d %q: %w", i, r.Name, err)
				}
				payloads[r.Name] = decoded
			}
			progress.Finish()
		}

		encoded, err := m.Encode()
		if err != nil {
			return fmt.Errorf("encoding manifest: %w", err)
		}
		if err := os.WriteFile(manifestPath, encoded, 0644); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}

		store := manifest.NewStore(payloadDir, payloadExt(extractDecompress))
		if err := store.WritePayloads(m, payloads); err != nil {
			return fmt.Errorf("writing resource files: %w", err)
		}

		fmt.Printf("Entries extracted: %d\n", len(m.Records))
		fmt.Printf("Data file size: %s\n", utils.Bytes(int64(len(dataBytes))))
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))
		fmt.Printf("Edit %s and run: texarc rebuild %s\n", manifestPath, manifestPath)

		return nil
	},
}

// ensureCleanDir refuses to reuse a non-empty payload directory unless
// --clean wipes it first.
func ensureCleanDir(dir string, clean bool) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("inspecting output directory: %w", err)
	}

	if len(children) == 0 {
		return nil
	}
	if !clean {
		return fmt.Errorf("output directory %q contains items; run with --clean to overwrite them", dir)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("cleaning output directory: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "manifest output path (default derived from input)")
	extractCmd.Flags().BoolVarP(&extractClean, "clean", "c", false, "overwrite a non-empty output directory")
	extractCmd.Flags().BoolVarP(&extractDecompress, "blz", "b", false, "BLZ-decompress resources on extraction")
}
