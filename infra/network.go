package infra

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// MaxAZs is the maximum number of availability zones a network spans.
const MaxAZs = 3

// DefaultAZs is the number of availability zones used when not configured.
const DefaultAZs = 2

var azSuffixes = [MaxAZs]string{"a", "b", "c"}

// CIDR returns the /24 block for the availability zone at index i.
func CIDR(i int) string {
	return fmt.Sprintf("10.0.%d.0/24", i+1)
}

// PublicCIDR returns the /24 block for the public subnet in the availability
// zone at index i. Public blocks are offset so they never overlap CIDR(i).
func PublicCIDR(i int) string {
	return fmt.Sprintf("10.0.%d.0/24", i+101)
}

// A Network is a virtual network with one subnet per availability zone.
type Network struct {
	ID      string
	Region  string
	AZs     []string
	CIDRs   []string
	Public  bool // Network has public subnets.
	Private bool // Network has private subnets.
}

// NewNetwork creates a network spanning azCount availability zones in the
// given region.
func NewNetwork(uid, region string, azCount int, public, private bool) (*Network, error) {
	if azCount < 0 || azCount > MaxAZs {
		return nil, errors.Errorf("availability zone count must be between 0 and %d, got %d", MaxAZs, azCount)
	}
	n := &Network{
		ID:      uid,
		Region:  region,
		AZs:     make([]string, azCount),
		CIDRs:   make([]string, azCount),
		Public:  public,
		Private: private,
	}
	for i := 0; i < azCount; i++ {
		n.AZs[i] = region + azSuffixes[i]
		n.CIDRs[i] = CIDR(i)
	}
	return n, nil
}

// UID returns the uid of the network.
func (n *Network) UID() string { return n.ID }

// Kind returns KindNetwork.
func (n *Network) Kind() Kind { return KindNetwork }

// DependsOn returns nil; networks have no dependencies.
func (n *Network) DependsOn() []Node { return nil }

func (n *Network) sealed() {}

type networkVars struct {
	UID            string   `cty:"uid"`
	Name           string   `cty:"name"`
	Region         string   `cty:"region"`
	AZs            []string `cty:"azs"`
	PrivateSubnets []string `cty:"private_subnets"`
	PublicSubnets  []string `cty:"public_subnets"`
	Public         bool     `cty:"public"`
	Private        bool     `cty:"private"`
}

// Vars returns the template values for the network.
//
// Private subnets use CIDR(i). Public subnets use CIDR(i) when the network is
// public only, and PublicCIDR(i) when it also has private subnets.
func (n *Network) Vars() (cty.Value, error) {
	v := networkVars{
		UID:            n.ID,
		Name:           Name(n.ID),
		Region:         n.Region,
		AZs:            n.AZs,
		PrivateSubnets: []string{},
		PublicSubnets:  []string{},
		Public:         n.Public,
		Private:        n.Private,
	}
	if n.Private {
		v.PrivateSubnets = n.CIDRs
	}
	if n.Public {
		v.PublicSubnets = n.CIDRs
		if n.Private {
			v.PublicSubnets = make([]string, len(n.CIDRs))
			for i := range n.CIDRs {
				v.PublicSubnets[i] = PublicCIDR(i)
			}
		}
	}
	return objectVal(v)
}
