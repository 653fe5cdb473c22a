// Package planner decides which tools need a rebuild.
package planner

// Plan returns the subset of head whose revision is not already the cached
// one: a tool needs building iff its cached revision differs or is absent.
// The result depends only on the two maps, never on iteration order.
func Plan(head, cached map[string]string) map[string]string {
	toBuild := make(map[string]string)
	for tool, rev := range head {
		if cached[tool] != rev {
			toBuild[tool] = rev
		}
	}
	return toBuild
}
