package s3

import (
	"fmt"
	"path"
	"strings"
)

// Scheme is the prefix of every S3 location
const Scheme = "s3://"

// Location is a bucket and a key prefix within it
type Location struct {
	Bucket string
	Prefix string
}

// IsLocation tells whether a location string is an S3 location
func IsLocation(loc string) bool {
	return strings.HasPrefix(loc, Scheme)
}

// ParseLocation parses an s3://bucket/prefix location
func ParseLocation(loc string) (Location, error) {
	if !IsLocation(loc) {
		return Location{}, fmt.Errorf("%s is not an %s location", loc, Scheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(loc, Scheme), "/", 2)
	if parts[0] == "" {
		return Location{}, fmt.Errorf("no bucket in %s", loc)
	}

	l := Location{Bucket: parts[0]}
	if len(parts) == 2 {
		l.Prefix = strings.Trim(parts[1], "/")
	}
	return l, nil
}

// Key returns the object key of a path relative to the location
func (l Location) Key(rel string) string {
	return strings.TrimPrefix(path.Join(l.Prefix, rel), "/")
}

// Rel returns the path of a key relative to the location, and false if the key
// is not underneath it
func (l Location) Rel(key string) (string, bool) {
	if l.Prefix == "" {
		return key, true
	}
	if !strings.HasPrefix(key, l.Prefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(key, l.Prefix+"/"), true
}

func (l Location) String() string {
	return Scheme + path.Join(l.Bucket, l.Prefix)
}
