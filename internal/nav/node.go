// Package nav keeps the displayed project tree and the record store in step. The tree owns
// order and display names; the store owns identity and paths.
package nav

// Node identifies what a tree item stands for. The set of implementations is closed.
type Node interface {
	isNode()
	// Key is unique across one tree.
	Key() string
}

type ProjectNode struct{}

type LibraryNode struct{}

type SchemeNode struct {
	ID string
}

type ModelNode struct {
	ID       string
	SchemeID string
}

func (ProjectNode) isNode() {}
func (LibraryNode) isNode() {}
func (SchemeNode) isNode()  {}
func (ModelNode) isNode()   {}

func (ProjectNode) Key() string  { return "project" }
func (LibraryNode) Key() string  { return "library" }
func (n SchemeNode) Key() string { return "scheme:" + n.ID }
func (n ModelNode) Key() string  { return "model:" + n.ID }

// Editable reports whether items of this node kind can be renamed in place.
func Editable(n Node) bool {
	switch n.(type) {
	case SchemeNode, ModelNode:
		return true
	default:
		return false
	}
}
