package sheet

import "cssb/utils/debug"

// Dump returns indented tree of all rules as they were read, before any
// validation, for the debug report.
func (d *Document) Dump() string {
	tw := debug.NewTreeWriter()
	for i := range d.Rules {
		r := &d.Rules[i]
		tw.Line(0, "rule %d", i)
		tw.Field(1, "media", r.Media)
		tw.Field(1, "declarations", r.Declarations)
		dumpNode(tw, 1, &r.Selector)
	}
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, depth int, n *Node) {
	if n.Combine != nil {
		tw.Line(depth, "combine %s", n.Combine.Combinator)
		dumpNode(tw, depth+1, &n.Combine.Left)
		dumpNode(tw, depth+1, &n.Combine.Right)
		return
	}
	tw.Line(depth, "simple")
	for _, p := range n.Parts {
		tw.Field(depth+1, p.Kind.String(), p.Name)
	}
}
