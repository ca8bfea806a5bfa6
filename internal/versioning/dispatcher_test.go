package versioning

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoVersion writes the resolved version so tests can see which handler ran.
func echoVersion(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, _ := FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(tag + ":" + v.String()))
	}
}

func newTestDispatcher(t *testing.T, reader Reader, opts ...Option) *Dispatcher {
	t.Helper()

	d, err := New(reader, opts...)
	require.NoError(t, err)
	d.HandleFunc("1", echoVersion("v1"))
	d.HandleFunc("2.0", echoVersion("v2"))
	return d
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *Error {
	t.Helper()

	var body map[string]*Error
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.NotNil(t, body["error"])
	return body["error"]
}

func TestDispatcher_Header(t *testing.T) {
	d := newTestDispatcher(t, HeaderReader{Name: "x-api-version"},
		WithDefaultVersion("1"), AssumeDefault(true), ReportVersions(true))

	tests := []struct {
		name       string
		values     []string
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{name: "version 1", values: []string{"1"}, wantStatus: http.StatusOK, wantBody: "v1:1"},
		{name: "version 2", values: []string{"2"}, wantStatus: http.StatusOK, wantBody: "v2:2"},
		{name: "version 2.0", values: []string{"2.0"}, wantStatus: http.StatusOK, wantBody: "v2:2"},
		{name: "unspecified uses default", wantStatus: http.StatusOK, wantBody: "v1:1"},
		{name: "same version twice", values: []string{"2", "2.0"}, wantStatus: http.StatusOK, wantBody: "v2:2"},
		{name: "unsupported", values: []string{"3"}, wantStatus: http.StatusBadRequest, wantCode: CodeUnsupported},
		{name: "invalid", values: []string{"abc"}, wantStatus: http.StatusBadRequest, wantCode: CodeInvalid},
		{name: "ambiguous", values: []string{"1", "2"}, wantStatus: http.StatusBadRequest, wantCode: CodeAmbiguous},
		{name: "ambiguous comma list", values: []string{"1, 2"}, wantStatus: http.StatusBadRequest, wantCode: CodeAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", nil)
			for _, v := range tt.values {
				req.Header.Add("X-Api-Version", v)
			}
			w := httptest.NewRecorder()

			d.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "1, 2", w.Header().Get(SupportedVersionsHeader))
			if tt.wantCode != "" {
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
				return
			}
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestDispatcher_Query(t *testing.T) {
	d := newTestDispatcher(t, QueryReader{Param: "api-version"},
		WithDefaultVersion("1"), AssumeDefault(true))

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{"/orders?api-version=1", http.StatusOK, "v1:1"},
		{"/orders?api-version=2", http.StatusOK, "v2:2"},
		{"/orders", http.StatusOK, "v1:1"},
		{"/orders?api-version=", http.StatusOK, "v1:1"},
		{"/orders?api-version=1&api-version=2", http.StatusBadRequest, ""},
		{"/orders?api-version=9", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			w := httptest.NewRecorder()

			d.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Header().Get(SupportedVersionsHeader))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestDispatcher_URLSegment(t *testing.T) {
	d := newTestDispatcher(t, URLSegmentReader{Param: "version"})

	r := chi.NewRouter()
	r.Method(http.MethodPost, "/v{version}/orders", d)

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{target: "/v1/orders", wantStatus: http.StatusOK, wantBody: "v1:1"},
		{target: "/v2/orders", wantStatus: http.StatusOK, wantBody: "v2:2"},
		{target: "/v2.0/orders", wantStatus: http.StatusOK, wantBody: "v2:2"},
		{target: "/v7/orders", wantStatus: http.StatusBadRequest, wantCode: CodeUnsupported},
		{target: "/vx/orders", wantStatus: http.StatusBadRequest, wantCode: CodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
				return
			}
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestDispatcher_NoDefault(t *testing.T) {
	d := newTestDispatcher(t, HeaderReader{Name: "x-api-version"})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeUnspecified, decodeError(t, w).Code)
}

func TestDispatcher_DefaultNotRegistered(t *testing.T) {
	d, err := New(HeaderReader{Name: "x-api-version"}, WithDefaultVersion("3"), AssumeDefault(true))
	require.NoError(t, err)
	d.HandleFunc("1", echoVersion("v1"))

	_, err = d.Resolve(httptest.NewRequest(http.MethodPost, "/orders", nil))

	var vErr *Error
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, CodeUnsupported, vErr.Code)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(HeaderReader{Name: "x"}, WithDefaultVersion("one"))
	assert.Error(t, err)

	_, err = New(HeaderReader{Name: "x"}, AssumeDefault(true))
	assert.Error(t, err)
}

func TestDispatcher_Handle(t *testing.T) {
	d, err := New(HeaderReader{Name: "x"})
	require.NoError(t, err)

	d.HandleFunc("2", echoVersion("v2"))
	d.HandleFunc("1", echoVersion("v1"))
	d.HandleFunc("1.5", echoVersion("v1.5"))

	assert.Equal(t, []Version{{Major: 1}, {Major: 1, Minor: 5}, {Major: 2}}, d.Versions())
	assert.Panics(t, func() { d.HandleFunc("2.0", echoVersion("dup")) })
	assert.Panics(t, func() { d.HandleFunc("two", echoVersion("bad")) })
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"header", "QUERY", " url "} {
		_, err := ParseStrategy(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseStrategy("media-type")
	assert.Error(t, err)
}
