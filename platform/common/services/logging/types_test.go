/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no non-printable chars",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "composite key",
			input:    "\x00asset\x00a1\x00",
			expected: "|asset|a1|",
		},
		{
			name:     "with tab character",
			input:    "go\tlang",
			expected: "golang",
		},
		{
			name:     "with bell character",
			input:    "warn\x07ing",
			expected: "warning",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Printable(tt.input).String())
		})
	}
}

func TestKeysAndBase64(t *testing.T) {
	assert.Equal(t, "a, b, c", Keys(map[string]int{"c": 3, "a": 1, "b": 2}).String())
	assert.Equal(t, "", Keys(map[string][]byte{}).String())
	assert.Equal(t, "aGFzaA==", Base64([]byte("hash")).String())
}

func TestLoggerName(t *testing.T) {
	assert.Equal(t, "statecc.chaincode.state", loggerName("github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/state"))
	assert.Equal(t, "statecc.chaincode.booking", loggerName("github.com/hyperledger-labs/fabric-state-contracts/chaincode/booking"))
	assert.Equal(t, "example.com.other", loggerName("example.com/other"))
	assert.Equal(t, "statecc.common.services.logging.testlogger_test", loggerName("github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging/testlogger_test"))
}

func TestPackageOf(t *testing.T) {
	assert.Equal(t, "github.com/a/b/state", packageOf("github.com/a/b/state.(*Store[...]).Get"))
	assert.Equal(t, "github.com/a/b/state", packageOf("github.com/a/b/state.JoinKey"))
	assert.Equal(t, "main", packageOf("main.main"))
}
