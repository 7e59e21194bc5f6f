// Package vdom describes the output of a render: a tree of elements, text,
// fragments and component placeholders.
//
// Components return a *VNode from Render. Component placeholders are
// resolved by the runtime into the child instance's own output before the
// tree is handed to a host, so a committed tree only holds elements, text
// and fragments.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Ul(Class("todos"),
//	    Range(items, func(it Item, _ int) *VNode {
//	        return Mount(TodoRow{Item: it}, it.ID)
//	    }),
//	)
//
// # Keys
//
// A key gives a child a stable identity among its siblings. Keyed component
// placeholders keep their instance (and state) across reorders; unkeyed ones
// are matched by position.
//
// # Hydration IDs
//
// AssignHIDs walks a committed tree and gives every interactive element
// (one with event handlers) an ID the host uses to route events back.
package vdom
