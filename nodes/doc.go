// Package nodes provides the builtin leaf node and resource types for
// the flow engine: HTTP fetching, JSON decoding, templating, logging,
// delays, and run-variable access. Register wires them all into a
// component.Registry; hosts can register additional types alongside.
package nodes
