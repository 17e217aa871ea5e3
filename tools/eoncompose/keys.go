package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark/logger"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/eoncompose/tools/internal/registry"
)

var exportAll bool

func init() {
	exportVkCmd.Flags().BoolVar(&exportAll, "all", false, "Export the key of every known circuit into the --out directory, with a manifest.")
}

// ManifestEntry describes one exported verification key.
type ManifestEntry struct {
	Name           string `cbor:"name"`
	Flavor         string `cbor:"flavor"`
	File           string `cbor:"file"`
	CircuitSize    uint64 `cbor:"circuit_size"`
	DomainSize     uint64 `cbor:"domain_size"`
	NbPublicInputs uint64 `cbor:"nb_public_inputs"`
	Hash           string `cbor:"hash"`
	Recursive      bool   `cbor:"recursive"`
}

type Manifest struct {
	SRSDigest string          `cbor:"srs_digest"`
	Keys      []ManifestEntry `cbor:"keys"`
}

const MANIFEST_FILE = "manifest.cbor"

var exportVkCmd = &cobra.Command{
	Use:   "export-vk [circuit args...]",
	Short: "Write the verification key of --circuit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportAll {
			return exportAllKeys()
		}
		_, composer, err := compose(args)
		if err != nil {
			return err
		}
		return output(composer.VerificationKey())
	},
}

var exportPkCmd = &cobra.Command{
	Use:   "export-pk [circuit args...]",
	Short: "Write the proving key of --circuit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, composer, err := compose(args)
		if err != nil {
			return err
		}
		return output(composer.ProvingKey())
	},
}

var vkHashCmd = &cobra.Command{
	Use:   "vk-hash [circuit args...]",
	Short: "Print the Poseidon2 hash of the verification key of --circuit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, composer, err := compose(args)
		if err != nil {
			return err
		}
		h := composer.VerificationKey().Hash()
		fmt.Println(h.Text(16))
		return nil
	},
}

func exportAllKeys() error {
	if outPath == "" {
		return fmt.Errorf("--all needs --out to name a directory")
	}
	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return err
	}
	log := logger.Logger().With().Str("cmd", "export-vk").Logger()
	f := factory()
	s, err := f.Get()
	if err != nil {
		return err
	}

	entries := registry.All()
	manifest := Manifest{SRSDigest: s.DigestHex(), Keys: make([]ManifestEntry, len(entries))}
	var g errgroup.Group
	for i, entry := range entries {
		g.Go(func() error {
			c, err := entry.Build(nil)
			if err != nil {
				return err
			}
			composer, err := entry.Compose(f, c, options()...)
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Name, err)
			}
			vk := composer.VerificationKey()
			file := entry.Name + ".vk.bin"
			out, err := os.Create(filepath.Join(outPath, file))
			if err != nil {
				return err
			}
			if _, err := vk.WriteTo(out); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			h := vk.Hash()
			manifest.Keys[i] = ManifestEntry{
				Name:           entry.Name,
				Flavor:         entry.Flavor.Name,
				File:           file,
				CircuitSize:    vk.CircuitSize,
				DomainSize:     vk.DomainSize,
				NbPublicInputs: vk.NbPublicInputs,
				Hash:           h.Text(16),
				Recursive:      vk.ContainsRecursiveProof,
			}
			log.Info().Str("circuit", entry.Name).Str("file", file).Msg("verification key exported")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return err
	}
	raw, err := em.Marshal(manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outPath, MANIFEST_FILE), raw, 0o644)
}
