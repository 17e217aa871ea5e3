package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/eon-protocol/eoncompose/accounts/permissionless"
	"github.com/eon-protocol/eoncompose/srs"
	"github.com/eon-protocol/eoncompose/tools/internal/registry"
)

func main() {
	entry, err := registry.Lookup(permissionless.NAME)
	if err != nil {
		log.Fatalln(err)
	}
	c, err := entry.Build(nil)
	if err != nil {
		log.Fatalln(err)
	}
	composer, err := entry.Compose(srs.NewFileFactory(srs.ConfigFromEnv()), c)
	if err != nil {
		log.Fatalln(err)
	}
	enc := hex.NewEncoder(os.Stdout)
	if _, err := composer.VerificationKey().WriteTo(enc); err != nil {
		log.Fatalln(err)
	}
	fmt.Println()
}
