// Package responsive decides, per source image, which responsive WebP
// variants to write and renders the <picture>/srcSet snippet that uses them.
//
//   - BuildPlan: one Variant per configured size with target dimensions,
//     output path and write/skip decision (plan.go).
//   - Snippet: srcSet markup for the variants that were produced (srcset.go).
package responsive
