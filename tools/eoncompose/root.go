package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	eon "github.com/eon-protocol/eoncompose"
	"github.com/eon-protocol/eoncompose/srs"
	"github.com/eon-protocol/eoncompose/tools/internal/registry"
)

var (
	srsDir     string
	srsURL     string
	srsDigest  string
	unsafeSize uint64
	unsafeSeed int64

	circuitName string
	outPath     string
	nbTasks     int
)

func init() {
	env := srs.ConfigFromEnv()
	rootCmd.PersistentFlags().StringVar(&srsDir, "srs-dir", env.Dir, "Directory caching the SRS files.")
	rootCmd.PersistentFlags().StringVar(&srsURL, "srs-url", env.DownloadURL, "URL the G1 powers are downloaded from when missing.")
	rootCmd.PersistentFlags().StringVar(&srsDigest, "srs-sha256", env.ExpectedDigest, "Expected hex sha256 of the G1 powers.")
	rootCmd.PersistentFlags().Uint64Var(&unsafeSize, "unsafe-srs-size", 0, "Generate an insecure SRS of this size instead of loading one. Testing only.")
	rootCmd.PersistentFlags().Int64Var(&unsafeSeed, "unsafe-srs-seed", 42, "Toxic waste of the insecure SRS.")
	rootCmd.PersistentFlags().StringVar(&circuitName, "circuit", "fib", "Circuit to compose.")
	rootCmd.PersistentFlags().StringVar(&outPath, "out", "", "Output file, hex on stdout when empty.")
	rootCmd.PersistentFlags().IntVar(&nbTasks, "tasks", 0, "Goroutines per composition step, 0 for no limit.")

	rootCmd.AddCommand(exportVkCmd, exportPkCmd, vkHashCmd, proveCmd, srsDigestCmd)
}

var rootCmd = &cobra.Command{
	Use:   "eoncompose",
	Short: "Compose proving and verification keys of the known circuits",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

func factory() srs.Factory {
	if unsafeSize > 0 {
		return srs.NewUnsafeFactory(unsafeSize, unsafeSeed)
	}
	return srs.NewFileFactory(srs.Config{Dir: srsDir, DownloadURL: srsURL, ExpectedDigest: srsDigest})
}

func options() []eon.Option {
	return []eon.Option{eon.WithNbTasks(nbTasks)}
}

func compose(args []string) (registry.Entry, *eon.Composer, error) {
	entry, err := registry.Lookup(circuitName)
	if err != nil {
		return registry.Entry{}, nil, err
	}
	c, err := entry.Build(args)
	if err != nil {
		return registry.Entry{}, nil, err
	}
	composer, err := entry.Compose(factory(), c, options()...)
	if err != nil {
		return registry.Entry{}, nil, fmt.Errorf("%s: %w", entry.Name, err)
	}
	return entry, composer, nil
}

// output writes obj to --out, or hex encoded to stdout.
func output(obj io.WriterTo) error {
	if outPath == "" {
		if _, err := obj.WriteTo(hex.NewEncoder(os.Stdout)); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if _, err := obj.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
