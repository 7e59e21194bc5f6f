package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, Component, string, EventHandler.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			node.setAttr(v)

		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}

		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*VNode:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case Component:
			// Embedded component - wrap in KindComponent VNode
			node.Children = append(node.Children, &VNode{
				Kind: KindComponent,
				Comp: v,
			})

		case string:
			// Shorthand for text node
			node.Children = append(node.Children, &VNode{
				Kind: KindText,
				Text: v,
			})

		case EventHandler:
			node.Props[v.Event] = v.Handler
		}
	}

	if IsVoidElement(tag) {
		node.Children = node.Children[:0]
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if a.Key == "key" {
		if s, ok := a.Value.(string); ok {
			v.Key = s
		}
		return
	}
	v.Props[a.Key] = a.Value
}

// Element creates an element with an arbitrary tag.
func Element(tag string, args ...any) *VNode { return createElement(tag, args) }

// Sectioning

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func Article(args ...any) *VNode { return createElement("article", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content

func Div(args ...any) *VNode  { return createElement("div", args) }
func P(args ...any) *VNode    { return createElement("p", args) }
func Span(args ...any) *VNode { return createElement("span", args) }
func Pre(args ...any) *VNode  { return createElement("pre", args) }
func Ul(args ...any) *VNode   { return createElement("ul", args) }
func Ol(args ...any) *VNode   { return createElement("ol", args) }
func Li(args ...any) *VNode   { return createElement("li", args) }
func Hr(args ...any) *VNode   { return createElement("hr", args) }
func Br(args ...any) *VNode   { return createElement("br", args) }

// Inline

func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func Small(args ...any) *VNode  { return createElement("small", args) }
func Code(args ...any) *VNode   { return createElement("code", args) }
func Img(args ...any) *VNode    { return createElement("img", args) }

// Forms

func Form(args ...any) *VNode     { return createElement("form", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
