package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`<html><head><style>body { color: red }</style>
			<script>track("visit");</script></head>
			<body><h1>Circuit Park</h1>
			<p>Our outdoor track is <b>1.200</b> metres long.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	text, err := f.FetchText(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Circuit Park")
	assert.Contains(t, text, "1.200 metres long")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "track(")
}

func TestFetchText_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.FetchText(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 404")
}

func TestFetchText_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(5 * time.Second)
	_, err := f.FetchText(ctx, srv.URL)
	assert.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "tags become spaces",
			html: "<p>800m</p><p>kart circuit</p>",
			want: "800m kart circuit",
		},
		{
			name: "entities decoded",
			html: "karts &amp; bikes&nbsp;welcome",
			want: "karts & bikes welcome",
		},
		{
			name: "multiline script dropped",
			html: "before<script>\nvar a = 1;\n</script>after",
			want: "before after",
		},
		{
			name: "whitespace collapsed",
			html: "  a \n\t b  ",
			want: "a b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.html))
		})
	}
}
