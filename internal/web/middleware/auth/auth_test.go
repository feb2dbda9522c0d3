package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeyID(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected string
	}{
		{
			name:     "parameter form",
			header:   "AWS3 AWSAccessKeyId=TESTKEY,Algorithm=HmacSHA256,Signature=abc",
			expected: "TESTKEY",
		},
		{
			name:     "parameter form with spaces",
			header:   "AWS3-HTTPS AWSAccessKeyId=TESTKEY Signature=abc",
			expected: "TESTKEY",
		},
		{
			name:     "simple form",
			header:   "AWS TESTKEY:c2lnbmF0dXJl",
			expected: "TESTKEY",
		},
		{
			name:     "simple form without signature",
			header:   "AWS TESTKEY",
			expected: "TESTKEY",
		},
		{
			name:     "empty header",
			header:   "",
			expected: "",
		},
		{
			name:     "unrecognized scheme",
			header:   "Bearer sometoken",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractKeyID(tc.header))
		})
	}
}
