// Package loadtest runs staged load against a deployed endpoint. A ramp is a
// list of stages, each moving the number of virtual users linearly towards a
// target, in the manner of k6's ramping-vus executor.
package loadtest
