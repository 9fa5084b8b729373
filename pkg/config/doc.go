// Package config loads versioned configuration documents.
//
// A document is first decoded into a generic value and checked against its
// JSON schema, then decoded into its Go type, defaulted, and validated again
// for constraints the schema cannot express.
package config
