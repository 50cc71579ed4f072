package infra

import "github.com/zclconf/go-cty/cty"

// ComputeInstance is a group of virtual machine instances.
type ComputeInstance struct {
	ID            string
	Network       *Network
	AMI           string
	InstanceType  string
	InstanceCount int
	UserData      string
	Public        bool     // Instances need internet access.
	Storage       []Bucket // Linked storage.
}

// UID returns the uid of the instance group.
func (c *ComputeInstance) UID() string { return c.ID }

// Kind returns KindComputeInstance.
func (c *ComputeInstance) Kind() Kind { return KindComputeInstance }

// DependsOn returns the network followed by linked storage.
func (c *ComputeInstance) DependsOn() []Node {
	return append([]Node{c.Network}, bucketDeps(c.Storage)...)
}

func (c *ComputeInstance) sealed() {}

type computeVars struct {
	UID           string   `cty:"uid"`
	Name          string   `cty:"name"`
	Network       string   `cty:"network"`
	AMI           string   `cty:"ami"`
	InstanceType  string   `cty:"instance_type"`
	InstanceCount int      `cty:"instance_count"`
	UserData      string   `cty:"user_data"`
	Public        bool     `cty:"public"`
	Storage       []string `cty:"storage"`
	Buckets       []string `cty:"buckets"`
}

// Vars returns the template values for the instance group.
func (c *ComputeInstance) Vars() (cty.Value, error) {
	return objectVal(computeVars{
		UID:           c.ID,
		Name:          Name(c.ID),
		Network:       Name(c.Network.ID),
		AMI:           c.AMI,
		InstanceType:  c.InstanceType,
		InstanceCount: c.InstanceCount,
		UserData:      c.UserData,
		Public:        c.Public,
		Storage:       names(c.Storage),
		Buckets:       bucketNames(c.Storage),
	})
}

// ContainerCompute is a containerized service running on a cluster with
// autoscaling.
type ContainerCompute struct {
	ID              string
	Network         *Network
	Image           string
	ContainerName   string
	CPU             int
	Memory          int
	DesiredCount    int
	AutoscaleMin    int
	AutoscaleMax    int
	AutoscaleTarget int
	HealthCheckPath string
	ClusterName     string
	SSHPubKey       string
	Public          bool
	Storage         []Bucket
}

// UID returns the uid of the service.
func (c *ContainerCompute) UID() string { return c.ID }

// Kind returns KindContainerCompute.
func (c *ContainerCompute) Kind() Kind { return KindContainerCompute }

// DependsOn returns the network followed by linked storage.
func (c *ContainerCompute) DependsOn() []Node {
	return append([]Node{c.Network}, bucketDeps(c.Storage)...)
}

func (c *ContainerCompute) sealed() {}

type containerVars struct {
	UID             string   `cty:"uid"`
	Name            string   `cty:"name"`
	Network         string   `cty:"network"`
	Image           string   `cty:"image"`
	ContainerName   string   `cty:"container_name"`
	CPU             int      `cty:"cpu"`
	Memory          int      `cty:"memory"`
	DesiredCount    int      `cty:"desired_count"`
	AutoscaleMin    int      `cty:"autoscale_min"`
	AutoscaleMax    int      `cty:"autoscale_max"`
	AutoscaleTarget int      `cty:"autoscale_target"`
	HealthCheckPath string   `cty:"healthcheck_path"`
	ClusterName     string   `cty:"cluster_name"`
	SSHPubKey       string   `cty:"ssh_pubkey"`
	Public          bool     `cty:"public"`
	Storage         []string `cty:"storage"`
	Buckets         []string `cty:"buckets"`
}

// Vars returns the template values for the service.
func (c *ContainerCompute) Vars() (cty.Value, error) {
	return objectVal(containerVars{
		UID:             c.ID,
		Name:            Name(c.ID),
		Network:         Name(c.Network.ID),
		Image:           c.Image,
		ContainerName:   c.ContainerName,
		CPU:             c.CPU,
		Memory:          c.Memory,
		DesiredCount:    c.DesiredCount,
		AutoscaleMin:    c.AutoscaleMin,
		AutoscaleMax:    c.AutoscaleMax,
		AutoscaleTarget: c.AutoscaleTarget,
		HealthCheckPath: c.HealthCheckPath,
		ClusterName:     c.ClusterName,
		SSHPubKey:       c.SSHPubKey,
		Public:          c.Public,
		Storage:         names(c.Storage),
		Buckets:         bucketNames(c.Storage),
	})
}
