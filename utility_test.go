package eventlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Error(t, err)
	assert.Equal(t, "eventlog: test error: details", err.Error())

	// Already prefixed
	err = fmtErrorf("eventlog: already prefixed")
	assert.Equal(t, "eventlog: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, first, combineErrors(first, nil))
	assert.Equal(t, second, combineErrors(nil, second))

	both := combineErrors(first, second)
	assert.Equal(t, "first; second", both.Error())
	assert.ErrorIs(t, both, second)
}

func TestConfigApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.ApplyOverrides("encoding=UTF-8", "max_records=-1"))
	assert.Equal(t, EncodingUTF8, cfg.Encoding)
	assert.Equal(t, int64(Unbounded), cfg.MaxRecords)

	err := cfg.ApplyOverrides("max_records=many")
	assert.ErrorContains(t, err, "invalid integer value for max_records")

	assert.NoError(t, cfg.ApplyOverrides())
}
