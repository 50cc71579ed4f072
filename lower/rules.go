package lower

import (
	"github.com/cloudblocks/tfgen/graph"
	"github.com/cloudblocks/tfgen/infra"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Parameter defaults.
const (
	DefaultInstanceCount = 1
	DefaultCPU           = 10
	DefaultMemory        = 512
	DefaultDesiredCount  = 1
	DefaultSSHPubKey     = "~/.ssh/id_rsa.pub"
	DefaultIndexDocument = "index.html"
	DefaultErrorDocument = "error.html"
)

// A computeEntry is a pending compute or container node. The network is
// kept so that later bound compute resources can share it.
type computeEntry struct {
	*entry
	network *networkBuilder
}

// lowerStorage lowers a storage resource. It is safe to call more than once
// for the same resource.
func (s *state) lowerStorage(res *graph.Resource) (*entry, error) {
	if e, ok := s.entries[res.UID]; ok {
		return e, nil
	}

	for _, b := range res.Bindings {
		if b.Direction() == graph.To {
			return nil, &BindingRuleError{
				UID:  res.UID,
				Rule: "storage cannot have bindings with direction to",
			}
		}
		if b.Target.Category == graph.Database {
			return nil, &BindingRuleError{
				UID:  res.UID,
				Rule: "storage cannot be bound to a database",
			}
		}
	}

	p := params{res}

	if res.HasBindingTo(graph.Internet) {
		name, err := p.optStr("bucket_name", "")
		if err != nil {
			return nil, err
		}
		index, err := p.optStr("index_document", DefaultIndexDocument)
		if err != nil {
			return nil, err
		}
		errdoc, err := p.optStr("error_document", DefaultErrorDocument)
		if err != nil {
			return nil, err
		}
		logTarget, err := p.optStr("logging_bucket", "")
		if err != nil {
			return nil, err
		}
		if logTarget != "" {
			return nil, &BindingRuleError{
				UID:  res.UID,
				Rule: "logging_bucket is not supported on website storage",
			}
		}
		if name == "" {
			name = s.generateName("website")
		}
		e := s.claim(res.UID)
		e.build = func() (infra.Node, error) {
			return &infra.PublicWebsiteStorage{
				ID:            res.UID,
				BucketName:    name,
				IndexDocument: index,
				ErrorDocument: errdoc,
			}, nil
		}
		s.logger.Debug("Lowered storage", zap.String("uid", res.UID), zap.Bool("website", true))
		return e, nil
	}

	name, err := p.optStr("bucket_name", "")
	if err != nil {
		return nil, err
	}
	logTarget, err := p.optStr("logging_bucket", "")
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = s.generateName("bucket")
	}

	// Claim before lowering the logging bucket so that a logging cycle
	// resolves to this entry instead of recursing.
	e := s.claim(res.UID)

	var logging *entry
	if logTarget != "" {
		target, err := s.region.Lookup(logTarget)
		if err != nil {
			return nil, err
		}
		if target.Category != graph.Storage {
			return nil, &BindingRuleError{
				UID:  res.UID,
				Rule: "logging_bucket must name a storage resource",
			}
		}
		logging, err = s.lowerStorage(target)
		if err != nil {
			return nil, err
		}
		e.dependOn(logging)
	}

	e.build = func() (infra.Node, error) {
		n := &infra.ObjectStorage{ID: res.UID, BucketName: name}
		if logging != nil {
			b, ok := logging.node.(infra.Bucket)
			if !ok {
				return nil, errors.Errorf("logging target %s is not a bucket", logging.uid)
			}
			n.LoggingBucket = b
		}
		return n, nil
	}
	s.logger.Debug("Lowered storage", zap.String("uid", res.UID), zap.Bool("website", false))
	return e, nil
}

// network returns the network for a compute resource: the network of the
// first already lowered compute resource it is bound to, or a new one.
func (s *state) network(res *graph.Resource) (*networkBuilder, error) {
	for _, b := range res.BindingsTo(graph.Compute, graph.ContainerCompute) {
		if b.Target == res {
			continue
		}
		if ce, ok := s.computes[b.Target.UID]; ok {
			s.logger.Debug("Sharing network",
				zap.String("uid", res.UID),
				zap.String("with", b.Target.UID),
				zap.String("network", ce.network.uid),
			)
			return ce.network, nil
		}
	}
	azCount, err := params{res}.optUint("az_count", infra.DefaultAZs)
	if err != nil {
		return nil, err
	}
	if azCount > infra.MaxAZs {
		return nil, &ParamTypeError{
			UID:   res.UID,
			Param: "az_count",
			Want:  "at most 3",
			Value: azCount,
		}
	}
	return s.newNetwork(azCount), nil
}

// linkedStorage lowers the storage resources res is bound to.
func (s *state) linkedStorage(res *graph.Resource) ([]*entry, error) {
	var out []*entry
	for _, b := range res.BindingsTo(graph.Storage) {
		e, err := s.lowerStorage(b.Target)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func buckets(entries []*entry) ([]infra.Bucket, error) {
	var out []infra.Bucket
	for _, e := range entries {
		b, ok := e.node.(infra.Bucket)
		if !ok {
			return nil, errors.Errorf("%s is not a bucket", e.uid)
		}
		out = append(out, b)
	}
	return out, nil
}

// computeBase holds the parts shared by compute and container rules.
type computeBase struct {
	ce      *computeEntry
	public  bool
	storage []*entry
}

// claimCompute validates the common parameters, claims the entry and
// resolves its network and storage.
func (s *state) claimCompute(res *graph.Resource) (*computeBase, error) {
	public, err := params{res}.optBool("is_public", false)
	if err != nil {
		return nil, err
	}
	ce := &computeEntry{entry: s.claim(res.UID)}
	s.computes[res.UID] = ce

	ce.network, err = s.network(res)
	if err != nil {
		return nil, err
	}
	ce.network.addConsumer(public)
	ce.dependOn(ce.network.entry)

	storage, err := s.linkedStorage(res)
	if err != nil {
		return nil, err
	}
	ce.dependOn(storage...)

	return &computeBase{ce: ce, public: public, storage: storage}, nil
}

func (s *state) lowerCompute(res *graph.Resource) error {
	p := params{res}
	ami, err := p.str("aws_ami")
	if err != nil {
		return err
	}
	instanceType, err := p.str("aws_instance_type")
	if err != nil {
		return err
	}
	count, err := p.optUint("instance_count", DefaultInstanceCount)
	if err != nil {
		return err
	}
	userData, err := p.optStr("user_data", "")
	if err != nil {
		return err
	}

	base, err := s.claimCompute(res)
	if err != nil {
		return err
	}
	base.ce.build = func() (infra.Node, error) {
		storage, err := buckets(base.storage)
		if err != nil {
			return nil, err
		}
		return &infra.ComputeInstance{
			ID:            res.UID,
			Network:       base.ce.network.node.(*infra.Network),
			AMI:           ami,
			InstanceType:  instanceType,
			InstanceCount: count,
			UserData:      userData,
			Public:        base.public,
			Storage:       storage,
		}, nil
	}
	s.logger.Debug("Lowered compute", zap.String("uid", res.UID), zap.Bool("public", base.public))
	return nil
}

func (s *state) lowerContainer(res *graph.Resource) error {
	p := params{res}
	var (
		n   infra.ContainerCompute
		err error
	)
	if n.Image, err = p.str("image_url"); err != nil {
		return err
	}
	if n.ContainerName, err = p.str("container_name"); err != nil {
		return err
	}
	if n.HealthCheckPath, err = p.str("healthcheck_path"); err != nil {
		return err
	}
	if n.AutoscaleMin, err = p.uint("autoscale_min"); err != nil {
		return err
	}
	if n.AutoscaleMax, err = p.uint("autoscale_max"); err != nil {
		return err
	}
	if n.AutoscaleTarget, err = p.uint("autoscale_target"); err != nil {
		return err
	}
	if n.AutoscaleMin > n.AutoscaleMax {
		return &ParamTypeError{
			UID:   res.UID,
			Param: "autoscale_min",
			Want:  "at most autoscale_max",
			Value: n.AutoscaleMin,
		}
	}
	if n.CPU, err = p.optUint("cpu_cores", DefaultCPU); err != nil {
		return err
	}
	if n.Memory, err = p.optUint("memory", DefaultMemory); err != nil {
		return err
	}
	if n.DesiredCount, err = p.optUint("desired_count", DefaultDesiredCount); err != nil {
		return err
	}
	if n.ClusterName, err = p.optStr("cluster_name", ""); err != nil {
		return err
	}
	if n.ClusterName == "" {
		n.ClusterName = s.generateName("cluster")
	}
	if n.SSHPubKey, err = p.optStr("ssh_pubkey", DefaultSSHPubKey); err != nil {
		return err
	}

	base, err := s.claimCompute(res)
	if err != nil {
		return err
	}
	n.ID = res.UID
	n.Public = base.public
	base.ce.build = func() (infra.Node, error) {
		storage, err := buckets(base.storage)
		if err != nil {
			return nil, err
		}
		node := n
		node.Network = base.ce.network.node.(*infra.Network)
		node.Storage = storage
		return &node, nil
	}
	s.logger.Debug("Lowered container compute", zap.String("uid", res.UID), zap.Bool("public", base.public))
	return nil
}
