package refs

import "regexp"

// Rule pairs a compiled pattern with the label reported for its matches.
// Capture group 1 of Pattern is the image path. Rules are applied in table
// order and each one sees the output of the previous one.
type Rule struct {
	Kind    string
	Pattern *regexp.Regexp
}

// imageExt matches the extensions a reference must end with.
const imageExt = `\.(?:jpg|jpeg|png|gif|bmp)`

// Rules is the reference pattern table. All patterns are case-insensitive.
var Rules = []Rule{
	{"src attribute", regexp.MustCompile(`(?i)src\s*=\s*["']([^"']+` + imageExt + `)["']`)},
	{"href attribute", regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+` + imageExt + `)["']`)},
	{"CSS url()", regexp.MustCompile(`(?i)url\(["']?([^)"']+` + imageExt + `)["']?\)`)},
	{"image property", regexp.MustCompile(`(?i)image\s*:\s*["']([^"']+` + imageExt + `)["']`)},
	{"backgroundImage", regexp.MustCompile(`(?i)backgroundImage\s*:\s*["']url\(([^)]+` + imageExt + `)\)["']`)},
}
