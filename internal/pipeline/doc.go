// Package pipeline orchestrates file discovery, per-file processing, and
// batch summary reporting.
//
// Each mode has a runner returning [RunStats]:
//
//   - [RunConvert]: every image becomes a sibling .webp.
//   - [RunResponsive]: every source image becomes one .webp per configured
//     size, and a <picture> snippet is printed per image.
//   - [RunRefs]: code references to images with an existing .webp sibling
//     are rewritten in place after a preview.
//   - [Analyze]: read-only size and bytes-per-pixel report.
//
// [Run] dispatches on the configured mode and [Watch] keeps processing new
// images after the initial batch. Files are processed sequentially; a
// cancelled context stops a runner between files.
package pipeline
