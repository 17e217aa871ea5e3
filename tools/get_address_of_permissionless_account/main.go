package main

import (
	"fmt"
	"log"

	"github.com/eon-protocol/eoncompose/accounts/permissionless"
	"github.com/eon-protocol/eoncompose/srs"
	"github.com/eon-protocol/eoncompose/tools/internal/registry"
)

// the address of an account is the hash of its verification key
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
	addr := composer.VerificationKey().Hash()
	fmt.Println(addr.Text(16))
}
