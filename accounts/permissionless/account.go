// Package permissionless is the account circuit anyone can open: it only
// checks the product of its first three public inputs against the fourth.
package permissionless

import "github.com/consensys/gnark/frontend"

const NAME = "permissionless-account"

type Account struct {
	X frontend.Variable `gnark:",public"`
	Y frontend.Variable `gnark:",public"`
	Z frontend.Variable `gnark:",public"`
	W frontend.Variable `gnark:",public"`
}

func (me *Account) Define(api frontend.API) error {
	prod := api.Mul(me.X, me.Y, me.Z)
	api.AssertIsEqual(prod, me.W)
	return nil
}
