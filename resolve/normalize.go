package resolve

// Normalize walks from a native position to the nearest text-bearing leaf.
// A position inside an element addresses the gap before child offset; it is
// moved onto the first leaf after that gap, or onto the end of the last leaf
// when offset is past the last child. Children marked
// contenteditable="false", and empty elements, are skipped.
//
// Leaves and childless elements are returned unchanged.
func Normalize(el Element, offset int) (Element, int) {
	if el == nil || el.IsText() || len(el.Children()) == 0 {
		return el, offset
	}
	kids := el.Children()
	isLast := offset >= len(kids)
	backward := isLast
	index := offset
	if isLast {
		index = len(kids) - 1
	}
	if index < 0 {
		index = 0
	}
	node := editableChild(el, index, backward)
	for node != nil && !node.IsText() && len(node.Children()) > 0 {
		i := 0
		if isLast {
			i = len(node.Children()) - 1
		}
		node = editableChild(node, i, backward)
	}
	if node == nil {
		return el, offset
	}
	if isLast {
		return node, countLeaf(node)
	}
	return node, 0
}

// editableChild returns the child at index, or the nearest sibling in
// direction that is neither empty nor marked non-editable. When both
// directions are exhausted the last child tried is returned.
func editableChild(parent Element, index int, backward bool) Element {
	kids := parent.Children()
	child := kids[index]
	i := index
	triedForward, triedBackward := false, false
	for skippable(child) {
		if triedForward && triedBackward {
			break
		}
		if i >= len(kids) {
			triedForward = true
			i = index - 1
			backward = true
			continue
		}
		if i < 0 {
			triedBackward = true
			i = index + 1
			backward = false
			continue
		}
		child = kids[i]
		if backward {
			i--
		} else {
			i++
		}
	}
	return child
}

func skippable(el Element) bool {
	if el.IsText() {
		return false
	}
	if len(el.Children()) == 0 {
		return true
	}
	v, ok := el.Attr(AttrContentEditable)
	return ok && v == "false"
}

func countLeaf(el Element) int {
	return CountDistance(el, nil, 0)
}
