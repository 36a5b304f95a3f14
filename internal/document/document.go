// Package document implements the level-order tree text format served
// by the language server.
//
// A tree document encodes one binary tree node per character column:
// the line at depth d is 2^(d+1)-1 characters wide (the last line may
// stop short), node labels sit at even offsets and single spaces at odd
// offsets. Reading the labels line by line yields the tree in level
// order. A final line ending is optional.
package document

import (
	"fmt"
	"strings"
)

// ValidationError reports text that does not satisfy the tree layout
// rules. Line is zero-based.
type ValidationError struct {
	Line   int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Document is a validated tree document. Nodes are stored in level
// order: the children of node i sit at indexes 2i+1 and 2i+2, and its
// parent at (i-1)/2.
type Document struct {
	nodes     []string
	charCount int
}

// FromText validates text against the tree layout and collects its node
// labels. It returns the complete document or a *ValidationError; there
// is no partial result, so a failed parse cannot disturb previously
// stored state.
func FromText(text string) (*Document, error) {
	doc := &Document{charCount: len(text)}

	// Lines end with "\n" or "\r\n", and a final line ending terminates
	// the text rather than opening an empty line: "A\n" is one line.
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines)-1; i++ {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for depth, line := range lines {
		width := 1<<(depth+1) - 1
		chars := []rune(line)

		last := depth == len(lines)-1
		if len(chars) > width || (!last && len(chars) != width) {
			return nil, &ValidationError{
				Line:   depth,
				Reason: fmt.Sprintf("line is %d characters wide, want %d", len(chars), width),
			}
		}

		for offset, c := range chars {
			if offset%2 == 1 {
				if c != ' ' {
					return nil, &ValidationError{
						Line:   depth,
						Reason: fmt.Sprintf("want space at offset %d, found %q", offset, c),
					}
				}
				continue
			}
			doc.nodes = append(doc.nodes, string(c))
		}
	}

	return doc, nil
}

// Get returns the node label at level-order index i. Indexes are
// int64 because they are computed from wire positions; anything out of
// range is absent, never a panic.
func (d *Document) Get(i int64) (string, bool) {
	if i < 0 || i >= int64(len(d.nodes)) {
		return "", false
	}

	return d.nodes[i], true
}

// LeftChild returns the label of node i's left child.
func (d *Document) LeftChild(i int64) (string, bool) {
	return d.Get(2*i + 1)
}

// RightChild returns the label of node i's right child.
func (d *Document) RightChild(i int64) (string, bool) {
	return d.Get(2*i + 2)
}

// Parent returns the label of node i's parent. The root has none.
func (d *Document) Parent(i int64) (string, bool) {
	if i <= 0 {
		return "", false
	}

	return d.Get((i - 1) / 2)
}

// CharCount reports the raw length of the source text, including
// newlines and padding.
func (d *Document) CharCount() int {
	return d.charCount
}

// Len reports the number of nodes in the tree.
func (d *Document) Len() int {
	return len(d.nodes)
}
