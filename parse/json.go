package parse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/localrag/go-localrag/ragerr"
)

func parseJSON(filePath string) (Result, error) {
	data, err := readFile(filePath)
	if err != nil {
		return Result{}, err
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to parse JSON", err)
	}

	var lines []string
	flattenJSON("", value, &lines)
	return Result{Text: strings.Join(lines, "\n")}, nil
}

// flattenJSON implements §4.4 step 3's JSON flattening: "key.path: value"
// lines, arrays of primitives comma-joined, arrays of objects indexed with
// "[i]", empty objects flattened to empty text.
func flattenJSON(prefix string, value interface{}, lines *[]string) {
	switch v := value.(type) {
	case map[string]interface{}:
		if len(v) == 0 {
			if prefix != "" {
				*lines = append(*lines, prefix+": ")
			}
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenJSON(key, v[k], lines)
		}
	case []interface{}:
		if len(v) == 0 {
			*lines = append(*lines, prefix+": ")
			return
		}
		if allPrimitive(v) {
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = formatScalar(item)
			}
			*lines = append(*lines, fmt.Sprintf("%s: %s", prefix, strings.Join(parts, ", ")))
			return
		}
		for i, item := range v {
			flattenJSON(fmt.Sprintf("%s[%d]", prefix, i), item, lines)
		}
	default:
		*lines = append(*lines, fmt.Sprintf("%s: %s", prefix, formatScalar(v)))
	}
}

func allPrimitive(items []interface{}) bool {
	for _, item := range items {
		switch item.(type) {
		case map[string]interface{}, []interface{}:
			return false
		}
	}
	return true
}

func formatScalar(v interface{}) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v", v)
}
