// Package rawdata implements the raw-data store used by ingestData: a
// deterministic base64url-encoded file path under dbDir/raw-data, and the
// reverse mapping back to the original source string for query results.
package rawdata

import (
	"encoding/base64"
	"net/url"
	"path/filepath"
	"strings"
)

const dirName = "raw-data"

// NormalizeSource strips the query and fragment from http(s) sources;
// every other source passes through unchanged (§4.4 ingestData step 1).
func NormalizeSource(source string) string {
	u, err := url.Parse(source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return source
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Path derives the deterministic raw-data file path for a normalized
// source (§4.4 ingestData step 2).
func Path(dbDir, normalizedSource string) string {
	stem := base64.URLEncoding.EncodeToString([]byte(normalizedSource))
	return filepath.Join(dbDir, dirName, stem+".md")
}

// IsRawDataPath reports whether filePath was derived by Path for the
// given dbDir, and if so decodes the original source (§4.5 step 3).
func IsRawDataPath(dbDir, filePath string) (source string, ok bool) {
	dir := filepath.Join(dbDir, dirName)
	rel, err := filepath.Rel(dir, filePath)
	if err != nil || strings.Contains(rel, string(filepath.Separator)) {
		return "", false
	}
	stem := strings.TrimSuffix(filepath.Base(filePath), ".md")
	decoded, err := base64.URLEncoding.DecodeString(stem)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
