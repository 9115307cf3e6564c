package tags

import (
	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/util/sets"
)

// CountedMethods are the verbs broken out in Stats.Methods, in display order.
var CountedMethods = []string{"get", "post", "put", "patch", "delete"}

// Stats summarises one tag's operations.
type Stats struct {
	Endpoints int
	Paths     int
	Methods   map[string]int
	Sections  int
}

// StatsOf counts the operations, paths, verbs and sections in a paths object.
func StatsOf(paths *oas.Node) Stats {
	st := Stats{Paths: paths.Len(), Methods: map[string]int{}}
	for _, m := range CountedMethods {
		st.Methods[m] = 0
	}

	sections := sets.New[string]()
	oas.EachOperation(paths, func(_, method string, _, op *oas.Node) {
		st.Endpoints++
		if _, ok := st.Methods[method]; ok {
			st.Methods[method]++
		}
		if m := MetaOf(op); m.HasSection() {
			sections.Add(m.Section)
		}
	})
	st.Sections = sections.Len()
	return st
}
