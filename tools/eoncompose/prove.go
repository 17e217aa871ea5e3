package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eon-protocol/eoncompose/tools/internal/registry"
)

var proveCmd = &cobra.Command{
	Use:   "prove [circuit args...]",
	Short: "Prove --circuit on the given arguments and check the proof",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := registry.Lookup(circuitName)
		if err != nil {
			return err
		}
		c, err := entry.Build(args)
		if err != nil {
			return err
		}
		if !c.HasAssignment() {
			return fmt.Errorf("%s: missing circuit arguments", entry.Name)
		}
		composer, err := entry.Compose(factory(), c, options()...)
		if err != nil {
			return err
		}
		if err := composer.ComputeWitness(c); err != nil {
			return err
		}
		prover, err := composer.CreateProver(c)
		if err != nil {
			return err
		}
		proof, err := prover.Prove()
		if err != nil {
			return err
		}
		verifier, err := composer.CreateVerifier(c.Shape())
		if err != nil {
			return err
		}
		// check the serialized proof, as a remote verifier would see it
		var buf bytes.Buffer
		if _, err := proof.WriteTo(&buf); err != nil {
			return err
		}
		decoded := verifier.NewProof()
		if _, err := decoded.ReadFrom(bytes.NewReader(buf.Bytes())); err != nil {
			return err
		}
		if err := verifier.Verify(decoded, prover.PublicInputs()); err != nil {
			return err
		}
		return output(proof)
	},
}
