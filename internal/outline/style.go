package outline

// StyleTable maps render levels to style handles. The engine never looks
// inside a handle; sinks resolve it.
type StyleTable []string

// MaxLevel is the deepest level with its own style, or -1 for an empty table.
func (t StyleTable) MaxLevel() int {
	return len(t) - 1
}

// Lookup returns the style for level. Levels past MaxLevel reuse the deepest
// style.
func (t StyleTable) Lookup(level int) string {
	if len(t) == 0 {
		return ""
	}
	if level < 0 {
		level = 0
	}
	return t[min(level, t.MaxLevel())]
}
