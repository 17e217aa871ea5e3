package srs

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	"github.com/consensys/gnark/logger"
	"github.com/schollz/progressbar/v3"
)

var ErrDigestMismatch = errors.New("srs: digest mismatch")

func load(cfg Config) (*SRS, error) {
	if cfg.Dir == "" {
		return nil, errors.New("srs: no cache directory configured")
	}
	log := logger.Logger().With().Str("component", "srs").Str("dir", cfg.Dir).Logger()
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	pathck := filepath.Join(cfg.Dir, CK_FILE)
	byteck, errck := os.ReadFile(pathck)
	sumck := sha256.Sum256(byteck)
	if errck != nil || (cfg.ExpectedDigest != "" && hex.EncodeToString(sumck[:]) != cfg.ExpectedDigest) {
		if cfg.DownloadURL == "" {
			if errck != nil {
				return nil, fmt.Errorf("srs: %w", errck)
			}
			return nil, ErrDigestMismatch
		}
		log.Info().Str("url", cfg.DownloadURL).Msg("local srs cache not found; downloading")
		var err error
		if byteck, err = download(cfg.DownloadURL, pathck); err != nil {
			return nil, err
		}
		sumck = sha256.Sum256(byteck)
		if cfg.ExpectedDigest != "" && hex.EncodeToString(sumck[:]) != cfg.ExpectedDigest {
			return nil, ErrDigestMismatch
		}
	}
	size := cfg.Size
	if size == 0 {
		size = len(byteck) / G1_BYTES
	}
	g1, err := ParseG1(byteck, size)
	if err != nil {
		return nil, err
	}
	bytevk, err := os.ReadFile(filepath.Join(cfg.Dir, VK_FILE))
	if err != nil {
		return nil, fmt.Errorf("srs: %w", err)
	}
	g2, err := ParseG2(bytevk)
	if err != nil {
		return nil, err
	}
	var vk kzg.VerifyingKey
	vk.G1 = g1[0]
	vk.G2 = g2
	vk.Lines[0] = bls12381.PrecomputeLines(vk.G2[0])
	vk.Lines[1] = bls12381.PrecomputeLines(vk.G2[1])

	s, err := New(&kzg.SRS{Pk: kzg.ProvingKey{G1: g1}, Vk: vk})
	if err != nil {
		return nil, err
	}
	s.dir = cfg.Dir
	log.Debug().Int("size", s.Size()).Str("sha256", s.DigestHex()).Msg("srs loaded")
	return s, nil
}

func download(url, path string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("srs: download %s: %s", url, resp.Status)
	}
	var buf bytes.Buffer
	bar := progressbar.DefaultBytes(resp.ContentLength, "Downloading SRS")
	if _, err := io.Copy(io.MultiWriter(&buf, bar), resp.Body); err != nil {
		return nil, err
	}
	raw := buf.Bytes()
	return raw, os.WriteFile(path, raw, 0o644)
}

// Save writes s in the layout load expects.
func Save(dir string, s *SRS) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var ck, vk bytes.Buffer
	if err := WriteG1(&ck, s.g1); err != nil {
		return err
	}
	if err := WriteG2(&vk, s.vk.G2); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, CK_FILE), ck.Bytes(), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, VK_FILE), vk.Bytes(), 0o644)
}
