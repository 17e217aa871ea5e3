package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/eon-protocol/eoncompose/accounts/permissionless"
	"github.com/eon-protocol/eoncompose/srs"
	"github.com/eon-protocol/eoncompose/tools/internal/registry"
)

func main() {
	if len(os.Args) != 5 {
		log.Fatalln("usage:", os.Args[0], "<x>", "<y>", "<z>", "<w>")
	}
	args := make([]string, 4)
	for i := range args {
		var e fr.Element
		if err := bls12381.NewDecoder(hex.NewDecoder(strings.NewReader(os.Args[i+1]))).Decode(&e); err != nil {
			log.Fatalln(err)
		}
		args[i] = e.String()
	}
	entry, err := registry.Lookup(permissionless.NAME)
	if err != nil {
		log.Fatalln(err)
	}
	c, err := entry.Build(args)
	if err != nil {
		log.Fatalln(err)
	}
	composer, err := entry.Compose(srs.NewFileFactory(srs.ConfigFromEnv()), c)
	if err != nil {
		log.Fatalln(err)
	}
	if err := composer.ComputeWitness(c); err != nil {
		log.Fatalln(err)
	}
	prover, err := composer.CreateProver(c)
	if err != nil {
		log.Fatalln(err)
	}
	proof, err := prover.Prove()
	if err != nil {
		log.Fatalln(err)
	}
	enc := hex.NewEncoder(os.Stdout)
	if _, err := proof.WriteTo(enc); err != nil {
		log.Fatalln(err)
	}
	fmt.Println()
}
