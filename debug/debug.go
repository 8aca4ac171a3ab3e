package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Ops     bool
	Search  bool
	History bool
	Anchor  bool
	Reduce  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Ops = boolEnv("JSONTREE_DEBUG_OPS")
	d.Search = boolEnv("JSONTREE_DEBUG_SEARCH")
	d.History = boolEnv("JSONTREE_DEBUG_HISTORY")
	d.Anchor = boolEnv("JSONTREE_DEBUG_ANCHOR")
	d.Reduce = boolEnv("JSONTREE_DEBUG_REDUCE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Ops() bool {
	return d.Ops
}
func Search() bool {
	return d.Search
}
func History() bool {
	return d.History
}
func Anchor() bool {
	return d.Anchor
}
func Reduce() bool {
	return d.Reduce
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
