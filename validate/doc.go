// Package validate runs complete validations of brim stores.
//
// A run is a fixed chain of stages: consolidate the store, load its metadata and the schema,
// meta-validate the schema, check array shapes, then check schema conformance.  The first
// stage to fail ends the run and its outcome is the outcome of the run.  Nothing is retried and
// nothing is carried over between runs, so validating unchanged inputs twice gives the same
// outcome.
package validate
