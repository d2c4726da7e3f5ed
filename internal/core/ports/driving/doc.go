// Package driving provides interfaces for primary (inbound) ports that the
// CLI and other entry points call into.
package driving
