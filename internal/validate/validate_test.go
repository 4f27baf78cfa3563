package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid https", "https://docs.mageduel.evolute.network/", []string{"http", "https"}, false},
		{"valid http", "http://localhost:3000", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "https://", []string{"https"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"https"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("url", tt.value, tt.allowedSchemes)
			assert.Equal(t, tt.wantErr, !v.IsValid(), "errors: %v", v.Err())
		})
	}
}

func TestValidator_Locale(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"en", false},
		{"zh-Hans", false},
		{"pt-BR", false},
		{"", true},
		{"not a locale", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := New()
			v.Locale("i18n.defaultLocale", tt.value)
			assert.Equal(t, tt.wantErr, !v.IsValid())
		})
	}
}

func TestValidator_PathPrefix(t *testing.T) {
	v := New()
	v.PathPrefix("baseUrl", "/")
	v.PathPrefix("baseUrl", "/docs/")
	assert.True(t, v.IsValid())

	v.PathPrefix("baseUrl", "docs/")
	v.PathPrefix("baseUrl", "/docs")
	assert.Len(t, v.Errors(), 2)
}

func TestValidator_Accumulates(t *testing.T) {
	v := New()
	assert.NoError(t, v.Err())

	v.Required("title", "  ")
	v.OneOf("onBrokenLinks", "explode", []string{"ignore", "log", "warn", "throw"})

	err := v.Err()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors(), 2)
	assert.Equal(t, "title: must not be empty; onBrokenLinks: must be one of [ignore log warn throw], got \"explode\"", err.Error())
}

func TestValidationError_Single(t *testing.T) {
	v := New()
	v.Required("title", "")
	assert.Equal(t, "title: must not be empty", v.Err().Error())
}
