package oas

// Methods lists the HTTP verbs recognised under a path item, in iteration order.
var Methods = []string{"get", "post", "put", "patch", "delete", "options", "head"}

// PathLevelFields are the path item members shared by every operation under a URL template.
var PathLevelFields = []string{"parameters", "servers", "summary", "description"}

// Walk visits n and every value below it depth-first, objects in key order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch n.Kind {
	case KindArray:
		for _, it := range n.Items {
			Walk(it, fn)
		}
	case KindObject:
		for _, k := range n.keys {
			Walk(n.fields[k], fn)
		}
	}
}

// EachOperation calls fn for every operation in a paths object, in path order and then
// verb order.
func EachOperation(paths *Node, fn func(path, method string, item, op *Node)) {
	paths.Each(func(path string, item *Node) {
		for _, m := range Methods {
			if op := item.Get(m); op.IsObject() {
				fn(path, m, item, op)
			}
		}
	})
}

// Lookup follows a sequence of object keys from n.
func Lookup(n *Node, keys ...string) *Node {
	for _, k := range keys {
		n = n.Get(k)
		if n == nil {
			return nil
		}
	}
	return n
}
