package utils

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// outputNode is a directory or file in the rendered output listing.
type outputNode struct {
	name     string
	path     string
	children map[string]*outputNode
}

func (n *outputNode) child(name string) *outputNode {
	if n.children == nil {
		n.children = map[string]*outputNode{}
	}
	c, ok := n.children[name]
	if !ok {
		c = &outputNode{name: name}
		n.children[name] = c
	}
	return c
}

// OutputTree renders the files written under root as a small tree.
// Paths outside root are shown by their absolute path. mark, when not nil,
// returns a suffix for a file (e.g. "(overwritten)").
func OutputTree(root string, files []string, mark func(path string) string) string {
	top := &outputNode{name: filepath.Base(root)}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = f
		}
		cur := top
		for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
			if part == "" {
				continue
			}
			cur = cur.child(part)
		}
		cur.path = f
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📂 %s\n", top.name)
	renderOutput(&b, top, "", mark)
	return strings.TrimRight(b.String(), "\n")
}

func renderOutput(b *strings.Builder, n *outputNode, prefix string, mark func(string) string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		c := n.children[name]
		last := i == len(names)-1
		branch, next := "┣", "┃  "
		if last {
			branch, next = "┗", "   "
		}
		icon := "📜"
		if len(c.children) > 0 {
			icon = "📂"
		}
		line := fmt.Sprintf("%s%s %s %s", prefix, branch, icon, c.name)
		if mark != nil && c.path != "" {
			if s := mark(c.path); s != "" {
				line += " " + s
			}
		}
		b.WriteString(line + "\n")
		renderOutput(b, c, prefix+next, mark)
	}
}
