package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-go/reactor/pkg/vdom"
)

// RendererConfig configures the renderer.
type RendererConfig struct {
	// Pretty prints one element per line with indentation.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// ShowHIDs prints each element's hydration id as data-hid.
	ShowHIDs bool
}

// Renderer prints VNode trees.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a tree to a string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0, r.config.Pretty)
}

// String renders node with the default configuration. Errors render as an
// empty string.
func String(node *vdom.VNode) string {
	out, err := NewRenderer(RendererConfig{}).RenderToString(node)
	if err != nil {
		return ""
	}
	return out
}

// Pretty renders node one element per line.
func Pretty(node *vdom.VNode) string {
	out, err := NewRenderer(RendererConfig{Pretty: true}).RenderToString(node)
	if err != nil {
		return ""
	}
	return out
}

// renderNode writes node. block is set when node sits on its own line in
// pretty output.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int, block bool) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth, block)
	case vdom.KindText:
		return r.renderText(w, node, depth, block)
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth, block); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindComponent:
		return r.renderPlaceholder(w, node, depth, block)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int, block bool) error {
	tag := node.Tag

	if block {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if isVoidElement(tag) {
		r.newline(w, block)
		return nil
	}

	childBlock := r.config.Pretty && hasElementChildren(node) && !isInlineElement(tag)
	r.newline(w, childBlock)
	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth+1, childBlock); err != nil {
			return err
		}
	}
	if childBlock {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	r.newline(w, block)
	return nil
}

func (r *Renderer) renderText(w io.Writer, node *vdom.VNode, depth int, block bool) error {
	if !block {
		_, err := io.WriteString(w, escapeText(node.Text))
		return err
	}
	text := strings.TrimSpace(node.Text)
	if text == "" {
		return nil
	}
	r.writeIndent(w, depth)
	_, err := io.WriteString(w, escapeText(text))
	r.newline(w, true)
	return err
}

func (r *Renderer) renderPlaceholder(w io.Writer, node *vdom.VNode, depth int, block bool) error {
	if block {
		r.writeIndent(w, depth)
	}
	name := escapeComment(node.ComponentName())
	var err error
	if node.Key != "" {
		_, err = fmt.Fprintf(w, "<!--%s key=%s-->", name, escapeComment(node.Key))
	} else {
		_, err = fmt.Fprintf(w, "<!--%s-->", name)
	}
	r.newline(w, block)
	return err
}

func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if r.config.ShowHIDs && node.HID != "" {
		if _, err := fmt.Fprintf(w, ` data-hid="%s"`, escapeAttr(node.HID)); err != nil {
			return err
		}
	}
	if node.Props == nil {
		return nil
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var events []string
	for _, key := range keys {
		value := node.Props[key]

		if isEventProp(key) {
			events = append(events, strings.ToLower(key[2:]))
			continue
		}
		if key == "key" || strings.HasPrefix(key, "_") {
			continue
		}

		if isBooleanAttr(key) {
			if on, ok := value.(bool); ok {
				if on {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		if s := attrToString(value); s != "" {
			if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(s)); err != nil {
				return err
			}
		}
	}

	for _, name := range events {
		if _, err := fmt.Fprintf(w, ` data-on-%s`, name); err != nil {
			return err
		}
	}
	return nil
}

func isEventProp(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

func hasElementChildren(node *vdom.VNode) bool {
	for _, child := range node.Children {
		if child != nil && child.Kind != vdom.KindText {
			return true
		}
	}
	return false
}

func attrToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}

func (r *Renderer) newline(w io.Writer, on bool) {
	if on {
		io.WriteString(w, "\n")
	}
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
