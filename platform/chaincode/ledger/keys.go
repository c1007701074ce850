/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"unicode/utf8"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
)

const (
	minUnicodeRuneValue   = 0            // U+0000
	maxUnicodeRuneValue   = utf8.MaxRune // U+10FFFF - maximum (and unallocated) code point
	compositeKeyNamespace = "\x00"
)

// ValidateCompositeKeyAttribute applies the checks the ledger's composite key builder
// performs on the object type and on every attribute
func ValidateCompositeKeyAttribute(str string) error {
	if !utf8.ValidString(str) {
		return errors.Wrapf(errors.Validation, "not a valid utf8 string: [%x]", str)
	}
	for index, runeValue := range str {
		if runeValue == minUnicodeRuneValue || runeValue == maxUnicodeRuneValue {
			return errors.Wrapf(errors.Validation, `input contains unicode %#U starting at position [%d]. %#U and %#U are not allowed in the input attribute of a composite key`,
				runeValue, index, minUnicodeRuneValue, maxUnicodeRuneValue)
		}
	}
	return nil
}

// IsCompositeKey tells whether key lives in the composite key namespace
func IsCompositeKey(key string) bool {
	return len(key) > 0 && key[:1] == compositeKeyNamespace
}

// SplitCompositeKey splits a key built by CreateCompositeKey into its object type and attributes
func SplitCompositeKey(compositeKey string) (string, []string, error) {
	if !IsCompositeKey(compositeKey) {
		return "", nil, errors.Wrapf(errors.Validation, "[%s] is not a composite key", compositeKey)
	}
	componentIndex := 1
	var components []string
	for i := 1; i < len(compositeKey); i++ {
		if compositeKey[i] == minUnicodeRuneValue {
			components = append(components, compositeKey[componentIndex:i])
			componentIndex = i + 1
		}
	}
	if len(components) == 0 {
		return "", nil, errors.Wrapf(errors.Validation, "composite key [%x] has no object type", compositeKey)
	}
	attrs := []string{}
	if len(components) > 1 {
		attrs = components[1:]
	}
	return components[0], attrs, nil
}

// PartialCompositeKeyRange returns the half-open range holding every key that starts with the given partial key
func PartialCompositeKeyRange(partialCompositeKey string) (string, string) {
	return partialCompositeKey, partialCompositeKey + string(rune(maxUnicodeRuneValue))
}
