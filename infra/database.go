package infra

import "github.com/zclconf/go-cty/cty"

// ManagedDatabase is a managed database instance inside a network.
//
// No lowering rule produces this node yet; it exists so database templates
// can be rendered once the rules are defined.
type ManagedDatabase struct {
	ID      string
	Network *Network
}

// UID returns the uid of the database.
func (d *ManagedDatabase) UID() string { return d.ID }

// Kind returns KindManagedDatabase.
func (d *ManagedDatabase) Kind() Kind { return KindManagedDatabase }

// DependsOn returns the network.
func (d *ManagedDatabase) DependsOn() []Node { return []Node{d.Network} }

func (d *ManagedDatabase) sealed() {}

type databaseVars struct {
	UID     string `cty:"uid"`
	Name    string `cty:"name"`
	Network string `cty:"network"`
}

// Vars returns the template values for the database.
func (d *ManagedDatabase) Vars() (cty.Value, error) {
	return objectVal(databaseVars{
		UID:     d.ID,
		Name:    Name(d.ID),
		Network: Name(d.Network.ID),
	})
}
