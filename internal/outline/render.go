package outline

import "fmt"

// DefaultMaxDepth bounds traversal depth when RenderOptions leaves it unset.
const DefaultMaxDepth = 64

// Instruction is one block for a document sink: the text of a node, its
// depth, and the style handle resolved for that depth.
type Instruction struct {
	ID    ID     `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
	Style string `json:"style"`
}

// RenderOptions controls text and depth resolution.
type RenderOptions struct {
	Locale   string
	MaxDepth int // levels 0..MaxDepth-1 are emitted; 0 means DefaultMaxDepth
}

// Placeholder is the text emitted for a node with no content in locale.
func Placeholder(locale string, id ID) string {
	return fmt.Sprintf("[missing %s: %s]", locale, id)
}

type frame struct {
	id    ID
	level int
	next  int // index of the next child to visit
}

type renderer struct {
	forest Forest
	idx    *Index
	styles StyleTable
	opts   RenderOptions

	out    []Instruction
	issues []Issue
	stack  []frame
	onPath map[ID]bool
}

// Render walks the forest depth-first from each root in order, emitting a
// node before its children. The walk keeps the ids on the active path so a
// malformed parent chain cannot loop, and stops descending at MaxDepth.
func Render(forest Forest, idx *Index, roots []ID, styles StyleTable, opts RenderOptions) ([]Instruction, []Issue) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	r := &renderer{
		forest: forest,
		idx:    idx,
		styles: styles,
		opts:   opts,
		out:    []Instruction{},
		onPath: make(map[ID]bool),
	}

	for _, root := range roots {
		if !idx.Has(root) {
			r.issues = append(r.issues, newIssue(KindUnknownRoot, root, 0,
				"root %q is not a known record", root))
			continue
		}
		r.walk(root)
	}
	return r.out, r.issues
}

func (r *renderer) walk(root ID) {
	r.visit(root, 0)
	for len(r.stack) > 0 {
		top := &r.stack[len(r.stack)-1]
		children := r.forest.Children(top.id)
		if top.next >= len(children) {
			delete(r.onPath, top.id)
			r.stack = r.stack[:len(r.stack)-1]
			continue
		}
		child, level := children[top.next], top.level+1
		top.next++
		r.visit(child, level)
	}
}

// visit emits id at level and pushes it so its children are walked next.
func (r *renderer) visit(id ID, level int) {
	rec, _ := r.idx.Get(id)

	if r.onPath[id] {
		r.issues = append(r.issues, newIssue(KindCycleDetected, id, rec.Line,
			"record %q is its own ancestor; branch truncated", id))
		return
	}
	if level >= r.opts.MaxDepth {
		r.issues = append(r.issues, newIssue(KindDepthExceeded, id, rec.Line,
			"record %q at depth %d exceeds maximum depth %d; branch truncated", id, level, r.opts.MaxDepth))
		return
	}

	text, ok := rec.Text(r.opts.Locale)
	if !ok {
		text = Placeholder(r.opts.Locale, id)
		r.issues = append(r.issues, newIssue(KindMissingLocaleContent, id, rec.Line,
			"record %q has no %q content", id, r.opts.Locale))
	}

	r.out = append(r.out, Instruction{
		ID:    id,
		Text:  text,
		Level: level,
		Style: r.styles.Lookup(level),
	})
	r.onPath[id] = true
	r.stack = append(r.stack, frame{id: id, level: level})
}
