package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
	"github.com/gwenbooks/gwenbooks/internal/platform/ctxkey"
	"github.com/gwenbooks/gwenbooks/internal/platform/sec"
)

// serveCatalog routes one request through the catalog handler, with
// optional authenticated claims injected the way the auth middleware
// would.
func serveCatalog(t *testing.T, service *catalog.Service, request *http.Request, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	t.Helper()
	if claims != nil {
		request = request.WithContext(context.WithValue(request.Context(), ctxkey.KeyUser, claims))
	}
	recorder := httptest.NewRecorder()
	catalog.NewHandler(service).Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_DownloadLinks covers the downloads endpoint: the required
title parameter and the per-provider link list.
*/
func TestHandler_DownloadLinks(t *testing.T) {
	link := &catalog.DownloadLink{Source: catalog.SourceGutenberg, URL: "https://x/84.pdf", Format: "PDF"}
	provider := &stubDownloader{stubProvider: stubProvider{source: catalog.SourceGutenberg}, link: link}
	service := catalog.NewService([]catalog.Provider{provider}, http.DefaultClient, discardLogger())

	t.Run("missing_title_is_rejected", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/downloads", nil)
		recorder := serveCatalog(t, service, request, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("links_per_provider", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/downloads?title=frankenstein", nil)
		recorder := serveCatalog(t, service, request, nil)

		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data struct {
				Links []catalog.DownloadLink `json:"links"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		require.Len(t, envelope.Data.Links, 1)
		assert.Equal(t, *link, envelope.Data.Links[0])
	})
}

/*
TestHandler_FlushCache covers the admin cache endpoint: anonymous and
member callers are rejected, and an admin flush actually forces the
next search back to the providers.
*/
func TestHandler_FlushCache(t *testing.T) {
	t.Run("anonymous_is_unauthorized", func(t *testing.T) {
		provider := &stubProvider{source: catalog.SourceGutenberg}
		service := catalog.NewService([]catalog.Provider{provider}, http.DefaultClient, discardLogger())

		request := httptest.NewRequest(http.MethodDelete, "/cache", nil)
		recorder := serveCatalog(t, service, request, nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("member_is_forbidden", func(t *testing.T) {
		provider := &stubProvider{source: catalog.SourceGutenberg}
		service := catalog.NewService([]catalog.Provider{provider}, http.DefaultClient, discardLogger())

		request := httptest.NewRequest(http.MethodDelete, "/cache", nil)
		recorder := serveCatalog(t, service, request, &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleMember)})

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "FORBIDDEN")
	})

	t.Run("admin_flush_forces_fresh_search", func(t *testing.T) {
		provider := &stubProvider{source: catalog.SourceGutenberg, books: makeBooks(catalog.SourceGutenberg, "Alpha", 2)}
		service := catalog.NewService([]catalog.Provider{provider}, http.DefaultClient, discardLogger())

		service.Search(context.Background(), "moby dick")
		service.Search(context.Background(), "moby dick")
		require.Equal(t, 1, provider.searchCalls)

		request := httptest.NewRequest(http.MethodDelete, "/cache", nil)
		recorder := serveCatalog(t, service, request, &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleAdmin)})
		require.Equal(t, http.StatusNoContent, recorder.Code)

		service.Search(context.Background(), "moby dick")
		assert.Equal(t, 2, provider.searchCalls)
	})
}
