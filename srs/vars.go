package srs

import "os"

const CK_FILE = "SRS.CK.BIN"
const VK_FILE = "SRS.VK.BIN"
const LK_FILE = "SRS.LK.%d.BIN"

const G1_BYTES = 96
const G2_BYTES = 192

const ENV_DIR = "EONCOMPOSE_SRS_DIR"
const ENV_URL = "EONCOMPOSE_SRS_URL"
const ENV_DIGEST = "EONCOMPOSE_SRS_SHA256"

type Config struct {
	// Dir caches the G1 powers, the G2 key and the Lagrange bases.
	Dir string
	// DownloadURL serves the G1 powers when the cache is missing or stale.
	DownloadURL string
	// Size is the number of G1 powers to load; 0 loads the whole file.
	Size int
	// ExpectedDigest is the hex sha256 of the G1 file; empty skips the check.
	ExpectedDigest string
}

func ConfigFromEnv() Config {
	cfg := Config{
		Dir:            os.Getenv(ENV_DIR),
		DownloadURL:    os.Getenv(ENV_URL),
		ExpectedDigest: os.Getenv(ENV_DIGEST),
	}
	if cfg.Dir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.Dir = dir + string(os.PathSeparator) + "eoncompose"
		}
	}
	return cfg
}
