package sanitizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		policy   Policy
		expected string
	}{
		{
			name:     "raw passes through",
			input:    "hello\x00world\n\"",
			policy:   Raw,
			expected: "hello\x00world\n\"",
		},
		{
			name:     "quoted escapes quote and backslash",
			input:    `say "hi" \o/`,
			policy:   Quoted,
			expected: `say \"hi\" \\o/`,
		},
		{
			name:     "quoted escapes common control chars",
			input:    "line1\nline2\ttab\rreturn",
			policy:   Quoted,
			expected: `line1\nline2\ttab\rreturn`,
		},
		{
			name:     "quoted escapes other controls as unicode",
			input:    "bell\x07del\x7f",
			policy:   Quoted,
			expected: `bell\u0007del\u007f`,
		},
		{
			name:     "quoted preserves UTF-8",
			input:    "Hello 世界 ✓",
			policy:   Quoted,
			expected: "Hello 世界 ✓",
		},
		{
			name:     "line folds line breaks",
			input:    "first\r\nsecond",
			policy:   Line,
			expected: "first  second",
		},
		{
			name:     "line hex encodes non printable",
			input:    "null\x00tab\t",
			policy:   Line,
			expected: "null<00>tab<09>",
		},
		{
			name:     "line hex encodes multibyte runes",
			input:    "nbsp\u00a0",
			policy:   Line,
			expected: "nbsp<c2a0>",
		},
		{
			name:     "line keeps quotes",
			input:    `path "C:\temp"`,
			policy:   Line,
			expected: `path "C:\temp"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Sanitize(tc.policy, tc.input))
			assert.Equal(t, "> "+tc.expected, string(Append([]byte("> "), tc.policy, tc.input)))
		})
	}
}

func TestQuotedIsValidJSONString(t *testing.T) {
	inputs := []string{
		"plain",
		`quote " and backslash \`,
		"controls \x01\x02\x1f\n\t",
		"unicode \u0085 next line",
	}

	for _, in := range inputs {
		quoted := `"` + Sanitize(Quoted, in) + `"`
		var out string
		require.NoError(t, json.Unmarshal([]byte(quoted), &out), quoted)
		assert.Equal(t, in, out)
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "quoted", Quoted.String())
	assert.Equal(t, "line", Line.String())
	assert.Equal(t, "Policy(9)", Policy(9).String())
}

func TestSanitizeCleanInputAllocatesNothing(t *testing.T) {
	in := "already clean text"
	allocs := testing.AllocsPerRun(100, func() {
		_ = Sanitize(Quoted, in)
	})
	assert.Zero(t, allocs)
}
