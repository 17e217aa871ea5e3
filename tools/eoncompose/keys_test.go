package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	eon "github.com/eon-protocol/eoncompose"
)

func TestExportAllKeys(t *testing.T) {
	dir := t.TempDir()
	unsafeSize, outPath = 64, dir
	t.Cleanup(func() { unsafeSize, outPath = 0, "" })

	require.NoError(t, exportAllKeys())

	raw, err := os.ReadFile(filepath.Join(dir, MANIFEST_FILE))
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, cbor.Unmarshal(raw, &manifest))
	require.Len(t, manifest.Keys, 2)
	require.NotEmpty(t, manifest.SRSDigest)

	for _, entry := range manifest.Keys {
		f, err := os.Open(filepath.Join(dir, entry.File))
		require.NoError(t, err)
		var vk eon.VerificationKey
		_, err = vk.ReadFrom(f)
		require.NoError(t, f.Close())
		require.NoError(t, err)
		h := vk.Hash()
		require.Equal(t, entry.Hash, h.Text(16), entry.Name)
		require.Equal(t, entry.DomainSize, vk.DomainSize)
	}
}

func TestExportAllNeedsDirectory(t *testing.T) {
	unsafeSize, outPath = 64, ""
	t.Cleanup(func() { unsafeSize = 0 })
	require.Error(t, exportAllKeys())
}
