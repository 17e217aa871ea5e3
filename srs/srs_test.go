package srs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnsafeFactoryLoadsOnce(t *testing.T) {
	f := NewUnsafeFactory(16, 42)
	a, err := f.Get()
	require.NoError(t, err)
	b, err := f.Get()
	require.NoError(t, err)
	require.Same(t, a, b)
	require.Equal(t, 16, a.Size())
	require.Len(t, a.G1(5), 5)
	require.Equal(t, 5, cap(a.G1(5)))
}

func TestSaveAndLoad(t *testing.T) {
	s, err := NewUnsafeFactory(8, 7).Get()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, Save(dir, s))

	loaded, err := NewFileFactory(Config{Dir: dir, ExpectedDigest: s.DigestHex()}).Get()
	require.NoError(t, err)
	require.Equal(t, s.Size(), loaded.Size())
	require.Equal(t, s.G1(8), loaded.G1(8))
	require.Equal(t, s.VerifyingKey().G2, loaded.VerifyingKey().G2)
	require.Equal(t, s.Digest(), loaded.Digest())

	partial, err := NewFileFactory(Config{Dir: dir, Size: 4}).Get()
	require.NoError(t, err)
	require.Equal(t, 4, partial.Size())
}

func TestLoadRejectsDigestMismatch(t *testing.T) {
	s, err := NewUnsafeFactory(4, 7).Get()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, Save(dir, s))
	_, err = NewFileFactory(Config{Dir: dir, ExpectedDigest: "00"}).Get()
	require.ErrorIs(t, err, ErrDigestMismatch)
}

func TestLagrangeCache(t *testing.T) {
	s, err := NewUnsafeFactory(8, 3).Get()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, Save(dir, s))
	loaded, err := NewFileFactory(Config{Dir: dir}).Get()
	require.NoError(t, err)

	_, err = loaded.Lagrange(6)
	require.ErrorIs(t, err, ErrNotPowerOfTwo)
	_, err = loaded.Lagrange(16)
	require.Error(t, err)

	lk, err := loaded.Lagrange(4)
	require.NoError(t, err)
	require.Len(t, lk, 4)
	_, err = os.Stat(filepath.Join(dir, "SRS.LK.2.BIN"))
	require.NoError(t, err)

	again, err := s.Lagrange(4)
	require.NoError(t, err)
	require.Equal(t, lk, again)
}
