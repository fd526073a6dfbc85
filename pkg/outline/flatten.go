package outline

// Flatten linearizes nodes in preorder: a parent is emitted before its
// children, siblings keep their original order. nil nodes are skipped and a
// nil Children slice is treated as empty. Malformed nodes are passed through.
func Flatten(nodes []*Node) []FlatEntry {
	ret := make([]FlatEntry, 0, len(nodes))
	Walk(nodes, func(n *Node) {
		ret = append(ret, FlatEntry{ID: n.ID, Title: n.Title, Body: n.Body})
	})
	return ret
}

// Walk visits every node in preorder.
func Walk(nodes []*Node, fn func(n *Node)) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		fn(n)
		Walk(n.Children, fn)
	}
}
