// Package resolv is responsible for invoking the correct driver for a store or schema location.
// Local paths are handled by the filesystem driver, s3:// locations by the S3 driver.
package resolv
