// Package vtest provides testing helpers for reactor components.
//
// A Harness mounts a component on a fresh root with an in-memory host and
// drives it the way a host would: by firing events at elements found by
// key.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, vdom.NamedFunc("Counter", Counter))
//	    h.Click("inc")
//	    h.Click("inc")
//	    vtest.ExpectText(t, h, "2")
//	}
//
// # Render Assertions
//
// Assert on the printed markup of the committed tree:
//
//	vtest.ExpectContains(t, h.Tree(), "<li>milk</li>")
//	vtest.ExpectNotContains(t, h.Tree(), "Loading")
//	vtest.ExpectElement(t, h.Tree(), "button")
//
// # Errors
//
// Errors reported to the root's error boundary are kept by the harness:
//
//	h.Click("save")
//	if len(h.Errors()) != 0 {
//	    t.Fatal(h.Errors())
//	}
//
// Mount fails the test if the first render fails. Use MountErr to assert
// on mount failures instead.
package vtest
