// Package refs rewrites image references in source and text files so they
// point at WebP siblings that exist on disk.
//
// An Index of every .webp under the project root answers "does this
// reference have a WebP version?"; Rewrite applies the ordered pattern table
// to one file's content and reports each substitution as a Change.
package refs
