package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var srsDigestCmd = &cobra.Command{
	Use:   "srs-digest",
	Short: "Print the size and sha256 of the G1 powers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := factory().Get()
		if err != nil {
			return err
		}
		fmt.Println("size", "=", s.Size())
		fmt.Println("sha256", "(", "SRS.CK", ")", "=", s.DigestHex())
		return nil
	},
}
