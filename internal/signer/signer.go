// Package signer abstracts transaction signing from the key material that
// performs it (spec.md §4.2). This is the only open polymorphism in the
// core: software, hardware, and offline signers all satisfy the same
// small capability interface.
package signer

import (
	"github.com/iota-tools/walletcore/internal/domain"
)

// Transaction is the minimal shape a Signer needs: something with a
// signing payload. The network client is responsible for building this
// from a higher-level intent; the signer never inspects it beyond the
// bytes it's asked to sign.
type Transaction struct {
	SigningPayload []byte
}

// UserSignature is the raw signature a Signer produces for a Transaction,
// tagged with the public key it was produced with so the network client
// can assemble the final signed envelope without asking the signer again.
type UserSignature struct {
	Signature []byte
	PublicKey []byte
}

// Signer exposes exactly what the network client needs: an address to
// attribute operations to, and a way to turn a built transaction into a
// signature. Implementations MUST be safe to share across concurrent
// asynchronous tasks (spec.md §4.2, §5) and MUST NOT perform network I/O.
type Signer interface {
	// Address returns the on-chain address this signer controls.
	Address() domain.Address

	// SignTransaction signs tx and returns a UserSignature, or a
	// walleterr.Error of Kind Signing if signing fails.
	SignTransaction(tx Transaction) (UserSignature, error)
}
