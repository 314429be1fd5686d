package ch

import (
	"context"
	"testing"

	perr "lectern/internal/platform/errors"
)

func TestOpenRejectsEmptyAndBadDSN(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{}); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("empty url: want config error, got %v", err)
	}
	if _, err := Open(context.Background(), Config{URL: "::not a dsn"}); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("bad dsn: want config error, got %v", err)
	}
}

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()
	ci := BuildClientInfo("", " api ")
	if len(ci.Products) != 4 {
		t.Fatalf("products = %d", len(ci.Products))
	}
	if ci.Products[0].Name != "lectern" || ci.Products[0].Version != "api" {
		t.Fatalf("first product = %+v", ci.Products[0])
	}
}

func TestCloseNilSafe(t *testing.T) {
	t.Parallel()
	var c *CH
	if err := c.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
