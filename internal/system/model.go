package system

import (
	"strconv"
	"strings"
)

// ID identifies a body within one compiled Model.
type ID int

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Triple is a canonical orbit: Child orbits Parent.
type Triple struct {
	Parent ID
	Child  ID
	Params Params
}

// Model is a compiled system. Orbits keep discovery order; every ID used
// in Orbits has an entry in Objects.
type Model struct {
	Name    string
	Root    ID
	Orbits  []Triple
	Objects map[ID]Body
}

// ObjectName returns the catalog name of the object with the given ID.
func (m *Model) ObjectName(id ID) string {
	kind := "unknown"
	if b, ok := m.Objects[id]; ok {
		kind = b.Kind().String()
	}
	return m.Name + "_" + kind + "_" + id.String()
}

// FileStem returns the system name as used in output file names.
func (m *Model) FileStem() string {
	return FileStem(m.Name)
}

// FileStem replaces spaces in a system name with underscores.
func FileStem(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
