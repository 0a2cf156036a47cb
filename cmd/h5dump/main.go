// Package main implements h5dump, a command-line dumper for Halo 5
// module files.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Surasia/h5-dumper/pkg/module"
	"github.com/Surasia/h5-dumper/pkg/tagfile"
)

var (
	modulePath string
	savePath   string
	workers    int
	compress   bool
)

var rootCmd = &cobra.Command{
	Use:   "h5dump",
	Short: "Dump tags from Halo 5 module files",
	Long: `h5dump walks a deploy directory for Halo 5 module files and writes
every contained tag to disk. Both Halo 5: Guardians (version 23) and
Halo 5: Forge (version 27) modules are supported.

Tags keep their module-internal names; characters that are not valid in
file names are replaced with underscores. With --compress, tags are
written as zstd-compressed tag files instead of raw bytes.`,
	Version:      "1.0.0",
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&modulePath, "module-path", "m", "", "path to the deploy directory containing module files")
	rootCmd.Flags().StringVarP(&savePath, "save-path", "s", "", "directory to write extracted tags to")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent tag reconstructions per module (0 = one per CPU)")
	rootCmd.Flags().BoolVarP(&compress, "compress", "c", false, "write tags as compressed tag files")
	rootCmd.MarkFlagRequired("module-path")
	rootCmd.MarkFlagRequired("save-path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "h5dump",
	})

	found := 0
	err := filepath.WalkDir(modulePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, "module") {
			return nil
		}
		found++
		logger.Info("dumping module", "path", path)
		if err := dumpModule(cmd.Context(), logger, path); err != nil {
			return fmt.Errorf("dump %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		logger.Error("dump failed", "err", err)
		return err
	}
	if found == 0 {
		logger.Warn("no module files found", "path", modulePath)
	}
	return nil
}

func dumpModule(ctx context.Context, logger *log.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := module.Read(f)
	if err != nil {
		return fmt.Errorf("parse module: %w", err)
	}
	logger.Info("module parsed",
		"version", m.Header.Version,
		"tags", len(m.Files),
		"blocks", len(m.Blocks))

	tags, err := m.ExtractTags(ctx, f, workers)
	if err != nil {
		return fmt.Errorf("extract tags: %w", err)
	}

	for i := range m.Files {
		if err := saveTag(&m.Files[i], tags[i]); err != nil {
			return err
		}
	}
	logger.Info("module dumped", "tags", len(tags))
	return nil
}

func saveTag(entry *module.FileEntry, data []byte) error {
	dest := filepath.Join(savePath, sanitizeName(entry.Name))
	if compress {
		dest += ".h5tag"
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if !compress {
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("write tag %s: %w", entry.Name, err)
		}
		return nil
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create tag file: %w", err)
	}
	meta := tagfile.Meta{
		GroupTag:      entry.GroupTag,
		GlobalTagID:   entry.GlobalTagID,
		AssetID:       entry.AssetID,
		AssetChecksum: entry.AssetChecksum,
	}
	if err := tagfile.Encode(out, meta, data); err != nil {
		out.Close()
		return fmt.Errorf("encode tag %s: %w", entry.Name, err)
	}
	return out.Close()
}

// sanitizeName maps module-internal tag names onto paths that are valid
// on the host filesystem. Module names use ':' and '*' freely.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, ":", "_")
	name = strings.ReplaceAll(name, "*", "_")
	return filepath.FromSlash(name)
}
