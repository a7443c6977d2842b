package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Verifier checks detached signatures of downloaded archives
type Verifier interface {
	// VerifyDetached checks signature against the signed content and
	// returns the identity of the signing key
	VerifyDetached(signed io.Reader, signature []byte) (string, error)
}

// GPGVerifier implements Verifier against an OpenPGP public keyring
type GPGVerifier struct {
	keyring openpgp.EntityList
}

// NewGPGVerifier loads a public keyring, armored or binary
func NewGPGVerifier(keyPath string) (*GPGVerifier, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("keyring path is empty")
	}

	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored keyring first
	entityList, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		// Try as binary keyring
		if _, serr := keyFile.Seek(0, io.SeekStart); serr != nil {
			return nil, serr
		}
		entityList, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyring: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in %s", keyPath)
	}

	return &GPGVerifier{keyring: entityList}, nil
}

// VerifyDetached accepts armored (.asc) and binary (.sig) signatures
func (v *GPGVerifier) VerifyDetached(signed io.Reader, signature []byte) (string, error) {
	var (
		signer *openpgp.Entity
		err    error
	)

	if bytes.HasPrefix(bytes.TrimSpace(signature), []byte("-----BEGIN PGP SIGNATURE-----")) {
		signer, err = openpgp.CheckArmoredDetachedSignature(v.keyring, signed, bytes.NewReader(signature), nil)
	} else {
		signer, err = openpgp.CheckDetachedSignature(v.keyring, signed, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return "", fmt.Errorf("signature verification failed: %w", err)
	}

	return identity(signer), nil
}

func identity(e *openpgp.Entity) string {
	if e == nil {
		return ""
	}
	names := make([]string, 0, len(e.Identities))
	for name := range e.Identities {
		names = append(names, name)
	}
	if len(names) == 0 {
		return fmt.Sprintf("%X", e.PrimaryKey.Fingerprint)
	}
	sort.Strings(names)
	return names[0]
}
