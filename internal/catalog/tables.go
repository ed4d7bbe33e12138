package catalog

// Static name tables mapping raw syntactic signatures to feature ids.
// Matchers only do table lookups here; they never hardcode catalog details.

// ScriptCalls maps fully-qualified call or member names (object chain plus
// property name, or a bare global) to feature ids.
var ScriptCalls = map[string]string{
	"structuredClone":    "structured-clone",
	"fetch":              "fetch",
	"Object.groupBy":     "object-groupby",
	"Array.fromAsync":    "array-fromasync",
	"Promise.any":        "promise-any",
	"navigator.canShare": "web-share",
}

// ScriptMethods maps bare method names, probed on any receiver when the
// qualified lookup misses. Kept deliberately small: only names unambiguous
// enough to attribute without type information.
var ScriptMethods = map[string]string{
	"at":        "array-at",
	"flat":      "array-flat",
	"showModal": "dialog-element",
}

// Constructors maps constructor invocation names to feature ids.
var Constructors = map[string]string{
	"IntersectionObserver": "intersection-observer",
	"ResizeObserver":       "resize-observer",
	"AbortController":      "abort-controller",
	"URLPattern":           "url-pattern",
	"BroadcastChannel":     "broadcast-channel",
	"Intl.Segmenter":       "intl-segmenter",
}

// AtRules maps at-rule keywords to feature ids.
var AtRules = map[string]string{
	"container": "css-container-queries",
	"layer":     "css-cascade-layers",
}

// SelectorPseudoClasses maps pseudo-class tokens (substring match against the
// rule selector) to feature ids.
var SelectorPseudoClasses = map[string]string{
	":has(":          "css-has-selector",
	":is(":           "css-is-selector",
	":where(":        "css-where-selector",
	":focus-visible": "css-focus-visible",
}

// Properties maps declaration property names to feature ids.
var Properties = map[string]string{
	"aspect-ratio":       "css-aspect-ratio",
	"content-visibility": "css-content-visibility",
	"container-type":     "css-container-queries",
	"container-name":     "css-container-queries",
	"backdrop-filter":    "css-backdrop-filter",
}

// ValueTokens maps function-call tokens or literal keyword values (substring
// match against the declaration value) to feature ids.
var ValueTokens = map[string]string{
	"clamp(":     "css-clamp",
	"min(":       "css-min-max",
	"max(":       "css-min-max",
	"color-mix(": "css-color-mix",
	"subgrid":    "css-subgrid",
}

// Generic is the fallback probe table keyed by "property:<name>" and
// "value:<value>". A hit is only reported when the resolved feature's
// catalog status is not widely.
var Generic = map[string]string{
	"property:scrollbar-gutter":    "css-scrollbar-gutter",
	"property:text-wrap":           "css-text-wrap-balance",
	"property:overscroll-behavior": "css-overscroll-behavior",
	"property:gap":                 "css-gap",
	"value:balance":                "css-text-wrap-balance",
}
