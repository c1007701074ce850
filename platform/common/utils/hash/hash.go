/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package hash

import (
	"bytes"
	"crypto/sha256"

	"github.com/pkg/errors"
)

// SHA256 returns the digest the ledger records for a private data value
func SHA256(raw []byte) ([]byte, error) {
	hash := sha256.New()
	n, err := hash.Write(raw)
	if n != len(raw) {
		return nil, errors.Errorf("hash failure")
	}
	if err != nil {
		return nil, err
	}
	return hash.Sum(nil), nil
}

func SHA256OrPanic(raw []byte) []byte {
	digest, err := SHA256(raw)
	if err != nil {
		panic(err)
	}
	return digest
}

// Equal reports whether two digests are present and byte-equal
func Equal(a, b []byte) bool {
	return len(a) > 0 && len(b) > 0 && bytes.Equal(a, b)
}
