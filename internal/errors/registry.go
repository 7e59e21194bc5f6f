package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Hook shape errors (R001-R009)
	// ============================================

	"R001": {
		Category:   CategoryHooks,
		Message:    "Inconsistent state shape",
		Detail:     "A component declared a different number or order of state cells than on its previous render. State cells are matched by declaration order, so the instance's state can no longer be trusted.",
		Suggestion: "Call UseState unconditionally at the top level of Render, never inside if/for.",
		DocURL:     "https://vango.dev/docs/reactor/errors/R001",
	},
	"R002": {
		Category:   CategoryHooks,
		Message:    "Inconsistent effect shape",
		Detail:     "A component declared a different number or order of effects, or changed the length of an effect's dependency tuple, between renders.",
		Suggestion: "Declare effects unconditionally and keep each dependency tuple the same length.",
		DocURL:     "https://vango.dev/docs/reactor/errors/R002",
	},
	"R003": {
		Category:   CategoryHooks,
		Message:    "Hook called outside render",
		Detail:     "Hooks read the render scope from the context passed to Render. The context given carried no scope.",
		Suggestion: "Pass the ctx received by Render to every hook call.",
		DocURL:     "https://vango.dev/docs/reactor/errors/R003",
	},

	// ============================================
	// Effect errors (R010-R019)
	// ============================================

	"R010": {
		Category: CategoryEffect,
		Message:  "Effect body failed",
		Detail:   "An effect body panicked. The failure is reported and the remaining effects still run.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R010",
	},
	"R011": {
		Category: CategoryEffect,
		Message:  "Effect cleanup failed",
		Detail:   "An effect cleanup panicked. During disposal the remaining cleanups of the same instance are skipped; children and siblings are still disposed.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R011",
	},

	// ============================================
	// Render errors (R020-R029)
	// ============================================

	"R020": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "A component panicked while rendering. The runtime halts because the tree can no longer be committed consistently.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R020",
	},
	"R021": {
		Category:   CategoryRender,
		Message:    "Render pass limit exceeded",
		Detail:     "State kept changing after every commit. This usually means an effect sets state unconditionally and lists that state as its own dependency.",
		Suggestion: "Guard the state update or fix the effect's dependency tuple.",
		DocURL:     "https://vango.dev/docs/reactor/errors/R021",
	},

	// ============================================
	// Runtime errors (R030-R049)
	// ============================================

	"R030": {
		Category: CategoryRuntime,
		Message:  "Runtime halted",
		Detail:   "The root stopped after a fatal error and no longer renders.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R030",
	},
	"R031": {
		Category: CategoryRuntime,
		Message:  "Handler not found",
		Detail:   "No handler is bound to this element and event in the last committed tree.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R031",
	},
	"R032": {
		Category: CategoryRuntime,
		Message:  "Root not mounted",
		Detail:   "The operation needs a mounted component tree.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R032",
	},
	"R033": {
		Category: CategoryRuntime,
		Message:  "Event handler failed",
		Detail:   "An event handler panicked. The failure is reported and pending updates are still flushed.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R033",
	},

	// ============================================
	// Config and host errors (R050-R069)
	// ============================================

	"R050": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		DocURL:   "https://vango.dev/docs/reactor/errors/R050",
	},
	"R051": {
		Category: CategoryConfig,
		Message:  "Configuration file not readable",
		DocURL:   "https://vango.dev/docs/reactor/errors/R051",
	},
	"R060": {
		Category: CategoryHost,
		Message:  "Host rejected commit",
		Detail:   "The render output consumer returned an error. The runtime keeps its state; the host may be behind.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R060",
	},
}

// GetAllCodes returns all registered codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
