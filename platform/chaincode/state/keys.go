/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package state

import (
	"strings"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
)

// KeySeparator joins the key parts of a record into its application key
const KeySeparator = ":"

// JoinKey builds the application key of a record from its ordered key parts.
// Parts must be non-empty, must not contain KeySeparator, and must be accepted by the
// ledger's composite key builder.
func JoinKey(parts ...string) (string, error) {
	if err := validateParts(parts); err != nil {
		return "", err
	}
	return strings.Join(parts, KeySeparator), nil
}

// SplitKey is the inverse of JoinKey
func SplitKey(key string) ([]string, error) {
	if len(key) == 0 {
		return nil, errors.Wrapf(errors.Validation, "empty key")
	}
	parts := strings.Split(key, KeySeparator)
	if err := validateParts(parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// CompositeKey qualifies the key parts with namespace using the ledger's own builder
func CompositeKey(builder ledger.KeyBuilder, namespace string, parts []string) (string, error) {
	if len(namespace) == 0 {
		return "", errors.Wrapf(errors.Validation, "empty namespace")
	}
	if err := ledger.ValidateCompositeKeyAttribute(namespace); err != nil {
		return "", errors.Wrapf(err, "invalid namespace [%s]", namespace)
	}
	if err := validateParts(parts); err != nil {
		return "", err
	}
	ck, err := builder.CreateCompositeKey(namespace, parts)
	if err != nil {
		return "", errors.Kindf(errors.Validation, err, "failed creating composite key for [%s:%s]", namespace, strings.Join(parts, KeySeparator))
	}
	return ck, nil
}

// partialCompositeKey validates a prefix of key parts, which may be empty
func partialCompositeKey(namespace string, parts []string) error {
	if len(namespace) == 0 {
		return errors.Wrapf(errors.Validation, "empty namespace")
	}
	for i, part := range parts {
		if err := validatePart(i, part); err != nil {
			return err
		}
	}
	return nil
}

func validateParts(parts []string) error {
	if len(parts) == 0 {
		return errors.Wrapf(errors.Validation, "no key parts")
	}
	for i, part := range parts {
		if err := validatePart(i, part); err != nil {
			return err
		}
	}
	return nil
}

func validatePart(i int, part string) error {
	if len(part) == 0 {
		return errors.Wrapf(errors.Validation, "key part [%d] is empty", i)
	}
	if strings.Contains(part, KeySeparator) {
		return errors.Wrapf(errors.Validation, "key part [%d] contains the reserved separator [%s]", i, KeySeparator)
	}
	if err := ledger.ValidateCompositeKeyAttribute(part); err != nil {
		return errors.Wrapf(err, "key part [%d]", i)
	}
	return nil
}
