package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid_string", input: "hello", wantErr: false},
		{name: "empty_string", input: "", wantErr: true},
		{name: "whitespace_only", input: "   ", wantErr: true},
		{name: "string_with_spaces", input: "  hello  ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid_seconds", input: "30s", wantErr: false},
		{name: "valid_millis", input: "50ms", wantErr: false},
		{name: "valid_complex", input: "1h30m45s", wantErr: false},
		{name: "empty_string", input: "", wantErr: false},
		{name: "invalid_format", input: "30", wantErr: true},
		{name: "invalid_unit", input: "30x", wantErr: true},
		{name: "whitespace_only", input: "   ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePositiveInt(t *testing.T) {
	assert.NoError(t, ValidatePositiveInt(""))
	assert.NoError(t, ValidatePositiveInt("3"))
	assert.ErrorIs(t, ValidatePositiveInt("0"), ErrPositiveInt)
	assert.ErrorIs(t, ValidatePositiveInt("abc"), ErrInvalidNumber)
}

func TestValidateIntRange(t *testing.T) {
	validate := ValidateIntRange(1, 64)

	assert.NoError(t, validate(""))
	assert.NoError(t, validate("1"))
	assert.NoError(t, validate("64"))
	assert.ErrorIs(t, validate("0"), ErrInvalidRange)
	assert.ErrorIs(t, validate("65"), ErrInvalidRange)
	assert.ErrorIs(t, validate("x"), ErrInvalidNumber)
}

func TestValidateMaxReferences(t *testing.T) {
	assert.NoError(t, ValidateMaxReferences(""))
	assert.NoError(t, ValidateMaxReferences("10000"))
	assert.NoError(t, ValidateMaxReferences("-1"))
	assert.ErrorIs(t, ValidateMaxReferences("lots"), ErrInvalidNumber)
}

func TestValidateFloatRange(t *testing.T) {
	validate := ValidateFloatRange(1, 10)

	assert.NoError(t, validate("2.5"))
	assert.NoError(t, validate(""))
	assert.ErrorIs(t, validate("0.5"), ErrInvalidRange)
	assert.Error(t, validate("two"))
}

func TestValidateExtensions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "defaults", input: "json, js, wxml, wxss", wantErr: false},
		{name: "space_separated", input: "js wxs", wantErr: false},
		{name: "leading_dots", input: ".js,.json", wantErr: false},
		{name: "empty", input: " , ", wantErr: true},
		{name: "only_dot", input: "js, .", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtensions(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error", "INFO"} {
		assert.NoError(t, ValidateLogLevel(level), level)
	}
	assert.Error(t, ValidateLogLevel("verbose"))
}

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{"json", "yaml", "tree", "YAML"} {
		assert.NoError(t, ValidateOutputFormat(format), format)
	}
	assert.Error(t, ValidateOutputFormat("xml"))
}
