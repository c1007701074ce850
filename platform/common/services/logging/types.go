/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
)

// Keys logs lazily the sorted keys of a map
func Keys[V any](m map[string]V) fmt.Stringer {
	return keys[V](m)
}

type keys[V any] map[string]V

func (k keys[V]) String() string {
	ks := make([]string, 0, len(k))
	for key := range k {
		ks = append(ks, key)
	}
	sort.Strings(ks)
	return strings.Join(ks, ", ")
}

// Base64 logs lazily a byte array in base64 format
func Base64(b []byte) base64Enc {
	return b
}

type base64Enc []byte

func (b base64Enc) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

// Printable logs lazily a string with its non-printable characters removed.
// Composite keys carry U+0000 separators that would otherwise garble the output.
func Printable(s string) printable {
	return printable(s)
}

type printable string

func (p printable) String() string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return '|'
		}
		if r < 0x20 || r == 0x7f || r == 0x10ffff {
			return -1
		}
		return r
	}, string(p))
}
