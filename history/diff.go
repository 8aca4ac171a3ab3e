package history

import (
	jsonpatch "github.com/evanphx/json-patch"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// MergePatch computes the RFC 7386 merge patch that transforms snapshot
// a's document into b's. Both text mirrors are valid JSON by construction.
func MergePatch(a, b *Snapshot) ([]byte, error) {
	return jsonpatch.CreateMergePatch([]byte(a.Text), []byte(b.Text))
}

// TextDiff renders a line-oriented human readable diff between the text
// mirrors of two snapshots.
func TextDiff(a, b *Snapshot) string {
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(a.Text, b.Text, true)
	diffs = diffCfg.DiffCleanupSemantic(diffs)
	return diffCfg.DiffPrettyText(diffs)
}
