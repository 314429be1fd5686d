package contenttree

import (
	"encoding/json"
	"reflect"
	"testing"
)

func tree(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestStr(t *testing.T) {
	t.Parallel()
	obj := tree(t, `{"blank":"  ","name":" Tout ","n":7,"f":1.50,"nested":{"x":"y"}}`)
	tests := []struct {
		aliases []string
		want    string
	}{
		{[]string{"missing", "name"}, "Tout"},
		{[]string{"blank", "name"}, "Tout"},
		{[]string{"n"}, "7"},
		{[]string{"f"}, "1.5"},
		{[]string{"nested"}, ""},
		{nil, ""},
	}
	for _, tc := range tests {
		if got := Str(obj, tc.aliases...); got != tc.want {
			t.Fatalf("Str(%v) = %q, want %q", tc.aliases, got, tc.want)
		}
	}
	if Str(nil, "x") != "" {
		t.Fatalf("Str(nil) should be empty")
	}
}

func TestNum(t *testing.T) {
	t.Parallel()
	obj := tree(t, `{"a":"x","b":" 12 ","c":3,"d":null}`)
	if f, ok := Num(obj, "a", "d", "b"); !ok || f != 12 {
		t.Fatalf("Num numeric string = %v %v", f, ok)
	}
	if f, ok := Num(obj, "c", "b"); !ok || f != 3 {
		t.Fatalf("Num priority = %v %v", f, ok)
	}
	if _, ok := Num(obj, "a", "d"); ok {
		t.Fatalf("Num should fail without a numeric alias")
	}
	if _, ok := Num(map[string]any{"x": "NaN"}, "x"); ok {
		t.Fatalf("NaN accepted")
	}
	if n, ok := Int(obj, "b"); !ok || n != 12 {
		t.Fatalf("Int = %d %v", n, ok)
	}
}

func TestObj(t *testing.T) {
	t.Parallel()
	obj := tree(t, `{"data":{"calendar":{"coptic":{"day":1}}, "list":[]}}`)
	m, ok := Obj(obj, "coptic", "data.list", "data.calendar.coptic", "data")
	if !ok || m["day"] != float64(1) {
		t.Fatalf("Obj = %v %v", m, ok)
	}
	if _, ok := Obj(obj, "data.calendar.coptic.day"); ok {
		t.Fatalf("number resolved as object")
	}
	if root, ok := Obj(obj, ""); !ok || !reflect.DeepEqual(root, obj) {
		t.Fatalf("empty path should be the object itself")
	}
}

func TestSeq(t *testing.T) {
	t.Parallel()
	arr := []any{"a", "b"}
	if got := Seq(arr, "items"); !reflect.DeepEqual(got, arr) {
		t.Fatalf("array = %v", got)
	}
	wrapped := tree(t, `{"meta":1,"readings":["x"]}`)
	if got := Seq(wrapped, "items", "readings"); !reflect.DeepEqual(got, []any{"x"}) {
		t.Fatalf("wrapped = %v", got)
	}
	bare := tree(t, `{"10":"c","2":"b","1":"a","z":"d"}`)
	if got := Seq(bare, "items"); !reflect.DeepEqual(got, []any{"a", "b", "c", "d"}) {
		t.Fatalf("bare object values = %v", got)
	}
	if Seq("scalar") != nil || Seq(nil) != nil || Seq(map[string]any{}) != nil {
		t.Fatalf("non sequences should be nil")
	}
}

func TestObjects(t *testing.T) {
	t.Parallel()
	got := Objects([]any{map[string]any{"a": 1}, "x", nil, map[string]any{}})
	if len(got) != 2 {
		t.Fatalf("Objects kept %d", len(got))
	}
}
