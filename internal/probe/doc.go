// Package probe inspects image files without decoding pixel data. A single
// image.DecodeConfig call per file yields format and dimensions, which is
// enough for dry runs, the analysis report and per-file stats lines.
package probe
