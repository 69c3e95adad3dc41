// Package naming holds the output path rules shared by every mode:
//
//   - WebPPath: the .webp sibling of a source image (same dir, same stem).
//   - VariantPath: the .webp file for one responsive size (stem + suffix).
//   - IsVariantStem: whether a source is itself a generated variant.
//   - WebPEquivalent: the .webp form of an image reference written in code.
package naming
