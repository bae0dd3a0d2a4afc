package ui

import (
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Leaves   []string // e.g. failed test names under a file
	IsFile   bool
}

// BuildTree turns slash-separated paths into a directory tree. leaves maps a
// path to the entries printed beneath it and may be nil.
func BuildTree(paths []string, leaves map[string][]string) *TreeNode {
	root := &TreeNode{Children: make(map[string]*TreeNode)}

	for _, p := range paths {
		parts := strings.Split(strings.TrimPrefix(p, "./"), "/")
		current := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
				}
			}
			current = current.Children[part]
			if i == len(parts)-1 {
				current.IsFile = true
				current.Leaves = append(current.Leaves, leaves[p]...)
			}
		}
	}
	return root
}

// PrintTree writes the tree below root, directories in cyan, files in
// fileColor and leaves in leafColor.
func PrintTree(w io.Writer, root *TreeNode, fileColor, leafColor *color.Color) {
	printTreeNode(w, root, "", fileColor, leafColor)
}

func printTreeNode(w io.Writer, node *TreeNode, prefix string, fileColor, leafColor *color.Color) {
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	dirColor := color.New(color.FgCyan)
	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, childPrefix := "├── ", "│   "
		if last {
			connector, childPrefix = "└── ", "    "
		}

		// A path can be both a file and a directory prefix of another path.
		if child.IsFile {
			fileColor.Fprintf(w, "%s%s%s\n", prefix, connector, child.Name)
		} else {
			dirColor.Fprintf(w, "%s%s%s/\n", prefix, connector, child.Name)
		}

		for j, leaf := range child.Leaves {
			leafConnector := "├── "
			if j == len(child.Leaves)-1 && len(child.Children) == 0 {
				leafConnector = "└── "
			}
			leafColor.Fprintf(w, "%s%s%s\n", prefix+childPrefix, leafConnector, leaf)
		}

		printTreeNode(w, child, prefix+childPrefix, fileColor, leafColor)
	}
}
