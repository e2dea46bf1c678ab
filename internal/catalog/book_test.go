package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
)

/*
TestEncodeDecodeID verifies the composite identifier round-trip for every
registered source, including provider identifiers that contain colons.
*/
func TestEncodeDecodeID(t *testing.T) {
	tests := []struct {
		name       string
		source     catalog.Source
		providerID string
		wantID     string
	}{
		{"gutenberg_numeric", catalog.SourceGutenberg, "84", "gutenberg:84"},
		{"openlibrary_work", catalog.SourceOpenLibrary, "OL45804W", "openlibrary:OL45804W"},
		{"archive_identifier", catalog.SourceInternetArchive, "frankenstein00shel", "internetarchive:frankenstein00shel"},
		{"googlebooks_volume", catalog.SourceGoogleBooks, "zyTCAlFPjgYC", "googlebooks:zyTCAlFPjgYC"},
		{"provider_id_with_colon", catalog.SourceGoogleBooks, "a:b", "googlebooks:a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composite := catalog.EncodeID(tt.source, tt.providerID)
			assert.Equal(t, tt.wantID, composite)

			source, providerID, err := catalog.DecodeID(composite)
			require.NoError(t, err)
			assert.Equal(t, tt.source, source)
			assert.Equal(t, tt.providerID, providerID)
		})
	}
}

/*
TestDecodeID_Errors checks the identifier error taxonomy: missing
separator and empty parts are malformed, an unregistered prefix is an
unknown source.
*/
func TestDecodeID_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no_separator", "84", catalog.ErrInvalidIdentifier},
		{"empty", "", catalog.ErrInvalidIdentifier},
		{"empty_source", ":84", catalog.ErrInvalidIdentifier},
		{"empty_provider_id", "gutenberg:", catalog.ErrInvalidIdentifier},
		{"unknown_source", "librivox:84", catalog.ErrUnknownSource},
		{"case_sensitive_source", "Gutenberg:84", catalog.ErrUnknownSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := catalog.DecodeID(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

/*
TestSource_Valid covers the registered source whitelist.
*/
func TestSource_Valid(t *testing.T) {
	assert.True(t, catalog.SourceGutenberg.Valid())
	assert.True(t, catalog.SourceOpenLibrary.Valid())
	assert.True(t, catalog.SourceInternetArchive.Valid())
	assert.True(t, catalog.SourceGoogleBooks.Valid())
	assert.False(t, catalog.Source("librivox").Valid())
	assert.False(t, catalog.Source("").Valid())
}
