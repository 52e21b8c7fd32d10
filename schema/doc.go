// Package schema evaluates store metadata against a JSON Schema.
//
// Schema documents are meta-validated against JSON Schema Draft-06 before use, whatever their
// $schema keyword says.  A schema that fails meta-validation is a DefinitionError, which is a
// tooling problem and is kept apart from conformance failures of the data itself.
package schema
