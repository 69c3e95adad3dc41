package refs

import (
	"sort"
	"strings"

	"github.com/backmassage/webpify/internal/naming"
)

// Change is one rewritten reference.
type Change struct {
	Line int    // 1-based line of the match in the rewritten content.
	Old  string // Image path as written.
	New  string // Replacement .webp path.
	Kind string // Rule label, e.g. "src attribute".
}

// Rewrite applies Rules to content and returns the new content with the
// changes made, sorted by line. fileDir is the root-relative slash directory
// of the file being rewritten. A reference is rewritten only when its WebP
// equivalent resolves in idx.
func Rewrite(content, fileDir string, idx *Index) (string, []Change) {
	var changes []Change
	for _, rule := range Rules {
		matches := rule.Pattern.FindAllStringSubmatchIndex(content, -1)
		// Last to first so earlier offsets stay valid after substitution.
		for i := len(matches) - 1; i >= 0; i-- {
			m := matches[i]
			start, end := m[0], m[1]
			imagePath := content[m[2]:m[3]]

			webpPath, ok := naming.WebPEquivalent(imagePath)
			if !ok || !idx.Resolve(fileDir, webpPath) {
				continue
			}

			newText := strings.ReplaceAll(content[start:end], imagePath, webpPath)
			content = content[:start] + newText + content[end:]
			changes = append(changes, Change{
				Line: strings.Count(content[:start], "\n") + 1,
				Old:  imagePath,
				New:  webpPath,
				Kind: rule.Kind,
			})
		}
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Line < changes[j].Line })
	return content, changes
}
