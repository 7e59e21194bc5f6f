package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0),
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case Component:
			node.Children = append(node.Children, Mount(v))
		}
	}

	return node
}

// Mount creates a component placeholder. An optional key gives the
// component a stable identity among its siblings.
func Mount(c Component, key ...string) *VNode {
	node := &VNode{
		Kind: KindComponent,
		Comp: c,
	}
	if len(key) > 0 {
		node.Key = key[0]
	}
	return node
}

// Keyed sets the key on node and returns it.
func Keyed(key string, node *VNode) *VNode {
	if node != nil {
		node.Key = key
	}
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// TextContent returns the concatenated text of the tree, like the DOM's
// textContent. Component placeholders contribute nothing.
func TextContent(node *VNode) string {
	if node == nil {
		return ""
	}
	if node.Kind == KindText {
		return node.Text
	}
	var out []byte
	for _, child := range node.Children {
		out = append(out, TextContent(child)...)
	}
	return string(out)
}
