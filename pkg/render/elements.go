package render

import "strings"

func set(names string) map[string]bool {
	m := make(map[string]bool)
	for _, name := range strings.Fields(names) {
		m[name] = true
	}
	return m
}

// Elements without children or a closing tag.
var voidElements = set("area base br col embed hr img input link meta param source track wbr")

// Elements kept on one line in pretty output.
var inlineElements = set("a abbr b bdi bdo br cite code data dfn em i kbd mark q s samp small span strong sub sup time u var wbr")

// Attributes printed by name alone when true.
var booleanAttrs = set("allowfullscreen async autofocus autoplay checked controls default defer disabled formnovalidate hidden ismap loop multiple muted nomodule novalidate open playsinline readonly required reversed selected")

func isVoidElement(tag string) bool   { return voidElements[tag] }
func isInlineElement(tag string) bool { return inlineElements[tag] }
func isBooleanAttr(name string) bool  { return booleanAttrs[name] }
