package http

import (
	stdhttp "net/http"
	"testing"

	"lectern/internal/adapters/documents"
	"lectern/internal/core/reqtoken"
	phttp "lectern/internal/platform/net/http"
	"lectern/internal/platform/testkit/apitest"
	"lectern/internal/services/api/documents/domain"
)

func mount() stdhttp.Handler {
	return apitest.Router(func(r phttp.Router) { Register(r, documents.Bundled(), reqtoken.NewTracker()) })
}

type payload[T any] struct {
	Value  T      `json:"value"`
	Source string `json:"source"`
	Token  string `json:"token"`
}

func TestList(t *testing.T) {
	t.Parallel()
	rep := apitest.Do(t, mount(), "GET", "/")
	p := apitest.Decode[payload[[]documents.Info]](t, rep.Data)
	if rep.StatusCode != 200 || p.Source != "bundled" || len(p.Value) == 0 {
		t.Fatalf("status %d payload %+v", rep.StatusCode, p)
	}
}

func TestGet_ExactAndFallback(t *testing.T) {
	t.Parallel()
	cases := []struct {
		target   string
		lang     string
		fallback bool
		title    string
	}{
		{"/prayers/trisagion?lang=en", "en", false, "The Trisagion"},
		{"/prayers/trisagion?lang=ru", "en", true, "The Trisagion"},
		{"/prayers/trisagion?lang=ar-EG", "ar", false, ""},
		{"/liturgy/dismissal?lang=ru", "en", true, "The Dismissal"},
	}
	for _, tc := range cases {
		rep := apitest.Do(t, mount(), "GET", tc.target)
		if rep.StatusCode != 200 {
			t.Fatalf("%s: status %d %s", tc.target, rep.StatusCode, rep.Error)
		}
		p := apitest.Decode[payload[documents.Document]](t, rep.Data)
		if p.Value.Handle.Language != tc.lang || p.Value.Fallback != tc.fallback {
			t.Fatalf("%s: got %+v", tc.target, p.Value.Resolved)
		}
		if tc.title != "" && p.Value.Title != tc.title {
			t.Fatalf("%s: title %q", tc.target, p.Value.Title)
		}
	}
}

func TestGet_UnknownIs404(t *testing.T) {
	t.Parallel()
	rep := apitest.Do(t, mount(), "GET", "/prayers/missing?lang=en")
	if rep.StatusCode != 404 {
		t.Fatalf("status %d", rep.StatusCode)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	rep := apitest.Do(t, mount(), "GET", "/prayers/trisagion/search?lang=en&q=HOLY+spirit&limit=5")
	if rep.StatusCode != 200 {
		t.Fatalf("status %d %s", rep.StatusCode, rep.Error)
	}
	p := apitest.Decode[payload[domain.SearchView]](t, rep.Data)
	if len(p.Value.Hits) != 1 || p.Value.Hits[0].Line != 3 || p.Value.Query != "HOLY spirit" {
		t.Fatalf("hits %+v", p.Value)
	}
}
