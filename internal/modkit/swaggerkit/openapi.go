package swaggerkit

import (
	"encoding/json"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"lectern/internal/platform/config"
)

// Version is reported in the document info block
const Version = "0.1.0"

// SpecMutator lets a caller adjust the generated document before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// Register adds a mutator applied on every doc.json request
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

var pathParam = regexp.MustCompile(`\{([^}:]+)(:[^}]*)?\}`)

// Build walks the mounted routes under base and describes them as an OAS3 document
func Build(routes chi.Routes, base string) (map[string]any, error) {
	paths := map[string]any{}
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if !strings.HasPrefix(route, base+"/") {
			return nil
		}
		rel := strings.TrimPrefix(route, base)
		if len(rel) > 1 {
			rel = strings.TrimSuffix(rel, "/")
		}
		if strings.Contains(rel, "*") {
			return nil
		}
		node, _ := paths[rel].(map[string]any)
		if node == nil {
			node = map[string]any{}
			paths[rel] = node
		}
		node[strings.ToLower(method)] = operation(method, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	title := "lectern API"
	if v := config.New().Prefix("LECTERN_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
		title += " " + v
	}
	doc := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": title, "version": Version},
		"servers": []any{map[string]any{"url": base}},
		"paths":   paths,
		"components": map[string]any{
			"schemas": map[string]any{"Envelope": envelopeSchema()},
		},
	}
	for _, m := range mutators {
		m(doc)
	}
	return doc, nil
}

func operation(method, rel string) map[string]any {
	segs := strings.Split(strings.Trim(rel, "/"), "/")
	tag := segs[0]

	var params []any
	for _, m := range pathParam.FindAllStringSubmatch(rel, -1) {
		params = append(params, map[string]any{
			"name": m[1], "in": "path", "required": true,
			"schema": map[string]any{"type": "string"},
		})
	}
	if method == http.MethodGet || method == http.MethodDelete {
		params = append(params, map[string]any{
			"name": "lang", "in": "query", "required": false,
			"schema": map[string]any{"type": "string"},
		})
	}

	op := map[string]any{
		"tags":        []any{tag},
		"operationId": operationID(method, segs),
		"responses": map[string]any{
			"200": envelopeRef("OK"),
			"400": envelopeRef("Bad Request"),
			"404": envelopeRef("Not Found"),
			"422": envelopeRef("Unprocessable Entity"),
			"502": envelopeRef("Bad Gateway"),
			"503": envelopeRef("Service Unavailable"),
			"500": envelopeRef("Internal Server Error"),
		},
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	return op
}

func operationID(method string, segs []string) string {
	parts := []string{strings.ToLower(method)}
	for _, s := range segs {
		s = pathParam.ReplaceAllString(s, "by_$1")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "_")
}

func envelopeRef(desc string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Envelope"},
			},
		},
	}
}

// matches pnet.Wire
func envelopeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"data":        map[string]any{},
		},
		"required": []any{"status_code", "status"},
	}
}

// PathsOf lists the documented paths in order, mostly for logs and tests
func PathsOf(doc map[string]any) []string {
	paths, _ := doc["paths"].(map[string]any)
	out := make([]string, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func serveDocJSON(routes chi.Routes, base string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		doc, err := Build(routes, base)
		if err != nil {
			http.Error(w, "doc build error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(doc)
	}
}
