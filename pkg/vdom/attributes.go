package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key sets the reconciliation key. It is not rendered as an attribute.
func Key(key string) Attr { return attr("key", key) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassIf sets the class attribute only when cond is true.
func ClassIf(cond bool, class string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(class)
}

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// Form attributes

func Type(t string) Attr             { return attr("type", t) }
func Name(name string) Attr          { return attr("name", name) }
func Value(value string) Attr        { return attr("value", value) }
func Placeholder(text string) Attr   { return attr("placeholder", text) }
func Checked(checked bool) Attr      { return attr("checked", checked) }
func Disabled(disabled bool) Attr    { return attr("disabled", disabled) }
func TitleAttr(title string) Attr    { return attr("title", title) }
func Src(src string) Attr            { return attr("src", src) }
func Alt(alt string) Attr            { return attr("alt", alt) }
func Href(href string) Attr          { return attr("href", href) }
func For(id string) Attr             { return attr("for", id) }
func Attribute(k string, v any) Attr { return attr(k, v) }
