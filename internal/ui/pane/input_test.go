// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		truncated bool
		repaired  bool
	}{
		{name: "trims", in: "  hello \t", want: "hello"},
		{name: "empty", in: "   ", want: ""},
		{name: "nfc", in: "cafe\u0301", want: "caf\u00e9"},
		{name: "at limit", in: strings.Repeat("x", 100), want: strings.Repeat("x", 100)},
		{name: "over limit", in: strings.Repeat("x", 150), want: strings.Repeat("x", 100), truncated: true},
		{name: "multibyte limit", in: strings.Repeat("я", 120), want: strings.Repeat("я", 100), truncated: true},
		{name: "invalid utf8", in: "caf\xff", want: "caf\uFFFD", repaired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeInput(tt.in, 100)
			assert.Equal(t, tt.want, got)

			if !tt.truncated && !tt.repaired {
				assert.NoError(t, err)
				return
			}
			var inErr *InputError
			require.ErrorAs(t, err, &inErr)
			assert.Equal(t, tt.truncated, inErr.Truncated)
			assert.Equal(t, tt.repaired, inErr.Repaired)
		})
	}
}

func TestInputError_Message(t *testing.T) {
	err := &InputError{Limit: 100, Got: 150, Truncated: true}
	assert.Equal(t, "input truncated to 100 characters (got 150)", err.Error())
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
	assert.Equal(t, "", truncateRunes("hi", 0))
}
