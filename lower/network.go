package lower

import (
	"github.com/cloudblocks/tfgen/infra"
	"go.uber.org/zap"
)

// networkBuilder collects the requirements of all consumers of a network.
// Subnet flags are a union: a consumer never removes a subnet another
// consumer needs.
type networkBuilder struct {
	*entry

	region  string
	azCount int
	public  bool
	private bool
}

// newNetwork claims an implicit network entry.
func (s *state) newNetwork(azCount int) *networkBuilder {
	nb := &networkBuilder{
		entry:   s.claim("network-" + s.generateID()),
		region:  s.region.Name,
		azCount: azCount,
	}
	nb.build = func() (infra.Node, error) {
		return infra.NewNetwork(nb.uid, nb.region, nb.azCount, nb.public, nb.private)
	}
	s.logger.Debug("Created network", zap.String("uid", nb.uid), zap.Int("az_count", azCount))
	return nb
}

// addConsumer records that a node with the given internet exposure runs in
// the network.
func (nb *networkBuilder) addConsumer(public bool) {
	if public {
		nb.public = true
		return
	}
	nb.private = true
}
