package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"

	"github.com/eon-protocol/eoncompose/srs"
)

func main() {
	file, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalln(err)
	}
	sc := len(file) / srs.G1_BYTES
	if sc*srs.G1_BYTES != len(file) {
		log.Fatalln("invalid ck file;", "size:", len(file))
	}
	ck, err := srs.ParseG1(file, sc)
	if err != nil {
		log.Fatalln(err)
	}
	for i := 0; (1 << i) <= len(ck); i++ {
		lk, err := kzg.ToLagrangeG1(ck[:1<<i])
		if err != nil {
			log.Fatalln(err)
		}
		hasher := sha256.New()
		if err := srs.WriteG1(hasher, lk); err != nil {
			log.Fatalln(err)
		}
		sum := hasher.Sum(nil)
		fmt.Println("sha256", "(", fmt.Sprintf(srs.LK_FILE, i), ")", "=", hex.EncodeToString(sum[:]))
	}
}
