package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// IsKnownMethod reports whether method is an HTTP verb the API accepts.
func IsKnownMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions,
		http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// IsQueryMethod reports whether parameters for method travel in the query
// string rather than the request body.
func IsQueryMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// EncodeBody serializes params as the JSON request body. A nil map encodes
// as an empty object.
func EncodeBody(params map[string]any) ([]byte, error) {
	if params == nil {
		return []byte("{}"), nil
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return body, nil
}

// EncodeQuery serializes params as a URL query string.
//
// Nested maps and slices use bracket notation (filter[status]=paid,
// ids[0]=1). Keys are sorted so the output is deterministic. Nil values are
// omitted.
func EncodeQuery(params map[string]any) (string, error) {
	if len(params) == 0 {
		return "", nil
	}

	normalized, err := normalize(params)
	if err != nil {
		return "", err
	}

	var parts []string
	if err := flatten("", normalized, &parts); err != nil {
		return "", err
	}
	return strings.Join(parts, "&"), nil
}

// normalize round-trips params through encoding/json so that structs, typed
// maps and typed slices reduce to map[string]any, []any and scalars.
func normalize(params map[string]any) (any, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode query parameters: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("encode query parameters: %w", err)
	}
	return out, nil
}

func flatten(key string, value any, parts *[]string) error {
	switch v := value.(type) {
	case nil:
		return nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flatten(subKey(key, k), v[k], parts); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, item := range v {
			if err := flatten(subKey(key, strconv.Itoa(i)), item, parts); err != nil {
				return err
			}
		}
		return nil
	default:
		part, err := runtime.StyleParamWithLocation("form", true, url.QueryEscape(key), runtime.ParamLocationQuery, v)
		if err != nil {
			return fmt.Errorf("encode query parameter %q: %w", key, err)
		}
		*parts = append(*parts, part)
		return nil
	}
}

func subKey(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "[" + child + "]"
}
