// Package domain contains the core business entities for affiliation
// extraction and roster reconciliation. It has no dependencies on
// infrastructure and is imported by all other packages.
package domain
