package bind

import (
	"net/http/httptest"
	"testing"
	"time"

	perr "lectern/internal/platform/errors"
)

type listQuery struct {
	Lang    string        `query:"lang" validate:"omitempty,oneof=ar en ru"`
	Limit   int           `query:"limit" validate:"omitempty,min=1,max=50"`
	Grouped bool          `query:"grouped"`
	Window  time.Duration `query:"window"`
	Ignored string
}

func TestQuery_Decodes(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest("GET", "/?lang=+ar+&limit=7&grouped=true&window=90s&Ignored=x", nil)
	got, err := Query[listQuery](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := listQuery{Lang: "ar", Limit: 7, Grouped: true, Window: 90 * time.Second}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestQuery_BlankLeavesZero(t *testing.T) {
	t.Parallel()
	got, err := Query[listQuery](httptest.NewRequest("GET", "/?lang=&limit=", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (listQuery{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestQuery_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		url   string
		field string
	}{
		{"bad int", "/?limit=seven", "limit"},
		{"bad bool", "/?grouped=maybe", "grouped"},
		{"out of range", "/?limit=99", "limit"},
		{"not one of", "/?lang=fr", "lang"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Query[listQuery](httptest.NewRequest("GET", tc.url, nil))
			e, ok := perr.As(err)
			if !ok || e.Code() != perr.ErrorCodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if e.Field() != tc.field {
				t.Fatalf("field: got %q want %q", e.Field(), tc.field)
			}
		})
	}
}

type dayQuery struct {
	Date  string `query:"date" validate:"required,datetime=2006-01-02"`
	Month int    `query:"month" validate:"omitempty,min=1,max=13"`
}

func TestQuery_Messages(t *testing.T) {
	t.Parallel()
	cases := []struct {
		url   string
		field string
		msg   string
	}{
		{"/", "date", "date is a required field"},
		{"/?date=17-10-2024", "date", "date must be a date formatted YYYY-MM-DD"},
		{"/?date=2024-10-17&month=14", "month", "month must be at most 13"},
		{"/?date=2024-10-17&month=-1", "month", "month must be at least 1"},
	}
	for _, tc := range cases {
		_, err := Query[dayQuery](httptest.NewRequest("GET", tc.url, nil))
		e, ok := perr.As(err)
		if !ok || e.Field() != tc.field || e.Error() != tc.msg {
			t.Fatalf("%s: got %v (field %q)", tc.url, err, fieldOf(e))
		}
	}
}

func fieldOf(e *perr.Error) string {
	if e == nil {
		return ""
	}
	return e.Field()
}
