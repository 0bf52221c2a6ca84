package outline

// Forest maps every indexed record to its ordered children.
type Forest map[ID][]ID

// Children returns the child ids of id in sibling order.
func (f Forest) Children(id ID) []ID {
	return f[id]
}

// BuildForest groups records under their parents. Sibling order and root
// order follow index order. Records whose parent is neither the sentinel nor
// an indexed id are orphans: they stay forest keys but are never listed as
// anyone's child or as a root. Records whose parent chain never reaches a
// root are reported as detached.
func BuildForest(idx *Index, rootSentinel ID) (Forest, []ID, []Issue) {
	forest := make(Forest, idx.Len())
	var roots []ID
	var issues []Issue

	if idx.Len() == 0 {
		return forest, roots, issues
	}

	for _, id := range idx.order {
		forest[id] = []ID{}
	}

	orphans := make(map[ID]bool)
	for _, id := range idx.order {
		rec := idx.byID[id]
		switch {
		case rec.Parent == rootSentinel:
			roots = append(roots, id)
		case !idx.Has(rec.Parent):
			orphans[id] = true
			issues = append(issues, newIssue(KindOrphanRecord, id, rec.Line,
				"record %q references unknown parent %q", id, rec.Parent))
		default:
			forest[rec.Parent] = append(forest[rec.Parent], id)
		}
	}

	issues = append(issues, detached(idx, rootSentinel, orphans)...)
	return forest, roots, issues
}

// detached walks each record's parent chain once, memoising the outcome, and
// reports records that cannot be reached from any root. Orphans themselves
// are already reported and are skipped.
func detached(idx *Index, rootSentinel ID, orphans map[ID]bool) []Issue {
	settled := make(map[ID]bool, idx.Len())
	attached := make(map[ID]bool, idx.Len())
	var issues []Issue

	for _, id := range idx.order {
		var path []ID
		onPath := make(map[ID]bool)
		cur := id
		ok := false
		for {
			if settled[cur] {
				ok = attached[cur]
				break
			}
			if orphans[cur] || onPath[cur] {
				break
			}
			rec := idx.byID[cur]
			path = append(path, cur)
			if rec.Parent == rootSentinel {
				ok = true
				break
			}
			onPath[cur] = true
			cur = rec.Parent
		}
		for _, p := range path {
			settled[p] = true
			attached[p] = ok
		}

		if !ok && !orphans[id] {
			rec := idx.byID[id]
			issues = append(issues, newIssue(KindDetachedRecord, id, rec.Line,
				"record %q is unreachable: its parent chain never reaches a root", id))
		}
	}
	return issues
}
