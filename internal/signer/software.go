package signer

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/ed25519"

	"github.com/iota-tools/walletcore/internal/domain"
	"github.com/iota-tools/walletcore/internal/walleterr"
)

// SoftwareSigner holds an Ed25519 private key in memory and derives its
// address from the public key on construction (spec.md §4.2). It has no
// mutable state after construction, so sharing it across goroutines needs
// no further synchronization.
type SoftwareSigner struct {
	privateKey ed25519.PrivateKey
	address    domain.Address
}

// NewSoftwareSigner builds a SoftwareSigner from a 64-byte Ed25519 private
// key (seed || public key, the standard library's representation).
func NewSoftwareSigner(privateKey ed25519.PrivateKey) (*SoftwareSigner, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, walleterr.New(walleterr.Config, "new_software_signer",
			fmt.Sprintf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(privateKey)))
	}
	publicKey := privateKey.Public().(ed25519.PublicKey)
	return &SoftwareSigner{
		privateKey: privateKey,
		address:    addressFromPublicKey(publicKey),
	}, nil
}

// NewSoftwareSignerFromSeed derives the private key from a 32-byte seed.
func NewSoftwareSignerFromSeed(seed []byte) (*SoftwareSigner, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, walleterr.New(walleterr.Config, "new_software_signer",
			fmt.Sprintf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed)))
	}
	return NewSoftwareSigner(ed25519.NewKeyFromSeed(seed))
}

func addressFromPublicKey(pub ed25519.PublicKey) domain.Address {
	return domain.Address("0x" + hex.EncodeToString(pub))
}

// Address returns the address derived from this signer's public key.
func (s *SoftwareSigner) Address() domain.Address {
	return s.address
}

// SignTransaction signs tx.SigningPayload with the held Ed25519 key.
//
// Signers MUST NOT perform network I/O (spec.md §4.2); this one doesn't.
func (s *SoftwareSigner) SignTransaction(tx Transaction) (UserSignature, error) {
	if len(tx.SigningPayload) == 0 {
		return UserSignature{}, walleterr.New(walleterr.Signing, "sign_transaction", "failed to sign: empty payload")
	}
	sig := ed25519.Sign(s.privateKey, tx.SigningPayload)
	return UserSignature{
		Signature: sig,
		PublicKey: append([]byte(nil), s.privateKey.Public().(ed25519.PublicKey)...),
	}, nil
}

var _ Signer = (*SoftwareSigner)(nil)
