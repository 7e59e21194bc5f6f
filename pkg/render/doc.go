// Package render prints committed trees as HTML-like markup.
//
// Hosts and tests use it to show what a root committed:
//
//	renderer := render.NewRenderer(render.RendererConfig{Pretty: true})
//	out, err := renderer.RenderToString(root.Tree())
//
// Text and attribute values are escaped. Event handlers are not printed;
// an element listening to an event carries a data-on-<event> marker, and
// with ShowHIDs its hydration id as data-hid. A component placeholder that
// was never resolved prints as an HTML comment naming the component.
package render
