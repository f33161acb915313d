package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"aoc/internal/ast"
	"aoc/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// ASTNodeOutput is the JSON shape of one syntax tree node.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Detail   string          `json:"detail,omitempty"`
	Start    uint32          `json:"start"`
	End      uint32          `json:"end"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	f, ok := fs.Lookup(sp)
	if !ok {
		return fmt.Sprintf("%d..%d", sp.Start, sp.End)
	}
	start, end := f.Position(sp.Start), f.Position(sp.End)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// buildTreeNode labels n and all of its descendants.
func buildTreeNode(n ast.Node, fs *source.FileSet) *treeNode {
	node := &treeNode{label: fmt.Sprintf("%s (span: %s)", describe(n), formatSpan(n.NodeSpan(), fs))}
	for _, child := range ast.Children(n) {
		node.children = append(node.children, buildTreeNode(child, fs))
	}
	return node
}

// FormatASTPretty prints the tree with one node per line and box-drawing
// indentation.
func FormatASTPretty(w io.Writer, root ast.Node, fs *source.FileSet) error {
	if root == nil {
		return fmt.Errorf("nil syntax tree")
	}
	tree := buildTreeNode(root, fs)
	if _, err := fmt.Fprintln(w, tree.label); err != nil {
		return err
	}
	return writeIndented(w, tree.children, "")
}

func writeIndented(w io.Writer, nodes []*treeNode, prefix string) error {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.label); err != nil {
			return err
		}
		if err := writeIndented(w, n.children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

// FormatASTTree draws the tree top-down with the root above its children.
// Spans are left out of the labels to keep the picture narrow.
func FormatASTTree(w io.Writer, root ast.Node) error {
	if root == nil {
		return fmt.Errorf("nil syntax tree")
	}
	block := renderTree(buildShortTree(root))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildShortTree(n ast.Node) *treeNode {
	node := &treeNode{label: describe(n)}
	for _, child := range ast.Children(n) {
		node.children = append(node.children, buildShortTree(child))
	}
	return node
}

// BuildASTOutput converts the tree into its JSON shape.
func BuildASTOutput(n ast.Node) ASTNodeOutput {
	var detail string
	ast.Dispatch[*string](labeler{}, n, &detail)
	sp := n.NodeSpan()
	out := ASTNodeOutput{
		Type:   ast.NodeTypeName(n),
		Detail: detail,
		Start:  sp.Start,
		End:    sp.End,
	}
	for _, child := range ast.Children(n) {
		out.Children = append(out.Children, BuildASTOutput(child))
	}
	return out
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, root ast.Node) error {
	if root == nil {
		return fmt.Errorf("nil syntax tree")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildASTOutput(root))
}

func padRight(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art
// representation. root is the column of the node's connector inside the block.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := runewidth.StringWidth(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		maxChildHeight = max(maxChildHeight, len(childBlocks[i].lines))
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
	} else {
		rootPos += shift
	}

	width := max(totalWidth, shift+labelWidth, rootPos+1)
	rootLine := padRight(strings.Repeat(" ", shift)+label, width)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}

	lines := make([]string, 0, 2+maxChildHeight)
	lines = append(lines, rootLine, string(connector))
	for row := range maxChildHeight {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", childPrefix))
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			sb.WriteString(padRight(line, block.width))
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		lines = append(lines, padRight(sb.String(), width))
	}

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
