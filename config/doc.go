// Package config provides the input record types and loaders for mapping
// files and generator settings.
//
// A mapping file describes the resources of an application per region. It may
// be written in JSON or YAML; the format is chosen by file suffix:
//
//  cloud: aws
//  regions:
//    us-west-1:
//      - id: web
//        category: compute
//        bindings:
//          - id: assets
//            direction: to
//        params:
//          aws_ami: ami-0d5eff06f840b45e9
//          aws_instance_type: t2.micro
//      - id: assets
//        category: storage
//
// Settings are written in HCL and describe the supported clouds, their
// regions and where the templates for every kind of generated node live:
//
//  cloud "aws" {
//    default_region = "us-west-1"
//    regions        = ["us-west-1", "eu-west-2"]
//
//    template "network" {
//      main      = "builtin://aws/network.tf"
//      variables = "builtin://aws/network_variables.tf"
//      outputs   = "builtin://aws/network_outputs.tf"
//    }
//  }
//
// DefaultSettings returns settings that point at the templates built into the
// binary.
package config
