// Package config handles HCL configuration parsing and validation.
//
// # Overview
//
// wpand is configured with a single HCL file (JSON and YAML are accepted
// too). HCL values may read the environment as env.NAME. The file names
// the 802.15.4 parent link and describes the 6LoWPAN interface created on
// top of it:
//
//	schema_version = "1.0"
//	log_level      = "info"
//	metrics_listen = "127.0.0.1:9117"
//
//	lowpan "lowpan0" {
//	  parent           = "wpan0"
//	  address          = "fe80::1/64"
//	  shutdown_timeout = "5s"
//	}
//
// # Key Types
//
//   - [Config]: top-level settings
//   - [LowpanConfig]: the managed interface
//   - [SyslogConfig]: optional remote syslog
//   - [ValidationErrors]: every problem found by [Config.Validate]
//
// Loading never validates; callers apply command-line overrides first and
// then call [Config.ApplyDefaults] and [Config.Validate].
package config
