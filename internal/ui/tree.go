package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/papapumpkin/selang/internal/compile"
	"github.com/papapumpkin/selang/internal/render"
	"github.com/papapumpkin/selang/internal/system"
)

// InclusionTree renders the containment hierarchy of m, one branch per
// orbit, labelled with object names and semi-major axes. Hosts also show
// how many bodies they carry, satellites of satellites included.
func (p *Printer) InclusionTree(m *system.Model) (string, error) {
	in, err := compile.ResolveTree(m.Orbits)
	if err != nil {
		return "", err
	}
	params := make(map[system.ID]system.Params, len(m.Orbits))
	for _, t := range m.Orbits {
		params[t.Child] = t.Params
	}

	var build func(id system.ID) *tree.Tree
	build = func(id system.ID) *tree.Tree {
		label := p.bold.Render(m.ObjectName(id))
		if o, ok := params[id]; ok {
			label += " " + p.dim.Render(orbitLabel(o))
		}
		label += " " + p.cyan.Render(fmt.Sprintf("(%d in orbit)", len(in.Descendants(id))))
		t := tree.Root(label)
		for _, child := range in.Children(id) {
			if len(in.Children(child)) == 0 {
				t.Child(p.bold.Render(m.ObjectName(child)) + " " + p.dim.Render(orbitLabel(params[child])))
				continue
			}
			t.Child(build(child))
		}
		return t
	}

	root := build(in.Root).EnumeratorStyle(p.cyan.PaddingRight(1))
	return root.String(), nil
}

// Tree prints the inclusion tree of m under the system name.
func (p *Printer) Tree(m *system.Model) error {
	s, err := p.InclusionTree(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.w, "%s\n%s\n", p.magenta.Render(m.Name), s)
	return nil
}

func orbitLabel(o system.Params) string {
	s := "a=" + render.Number(o.SemiMajorAxis)
	if o.Angle != nil {
		s += " M=" + render.Number(*o.Angle)
	}
	if o.Retrograde {
		s += " retrograde"
	}
	return s
}
