package resolv

import (
	"context"
	"sync"

	"github.com/birkland/brimval"
	"github.com/birkland/brimval/drivers/s3"
	"github.com/birkland/brimval/metadata"
	"github.com/pkg/errors"
)

// Resolver is a brimval.Driver that delegates to a driver chosen by location.
//
// The remote driver is created on first use, so that S3 settings are only
// required when an S3 location is actually given.
type Resolver struct {
	local  brimval.Driver
	remote func() (brimval.Driver, error)

	once         sync.Once
	remoteDriver brimval.Driver
	remoteErr    error
}

// NewResolver establishes a new resolver for the given local driver and
// remote driver factory.  A nil factory rejects all remote locations.
func NewResolver(local brimval.Driver, remote func() (brimval.Driver, error)) *Resolver {
	return &Resolver{
		local:  local,
		remote: remote,
	}
}

// Driver returns the driver responsible for a location
func (r *Resolver) Driver(loc string) (brimval.Driver, error) {
	if !s3.IsLocation(loc) {
		return r.local, nil
	}

	r.once.Do(func() {
		if r.remote == nil {
			r.remoteErr = errors.Errorf("no driver configured for %s locations", s3.Scheme)
			return
		}
		r.remoteDriver, r.remoteErr = r.remote()
	})

	return r.remoteDriver, errors.Wrapf(r.remoteErr, "could not initialize driver for %s", loc)
}

// Consolidate consolidates the store with the driver of its location
func (r *Resolver) Consolidate(ctx context.Context, store string) error {
	d, err := r.Driver(store)
	if err != nil {
		return err
	}
	return d.Consolidate(ctx, store)
}

// LoadMetadata loads store metadata with the driver of its location
func (r *Resolver) LoadMetadata(ctx context.Context, store string) (*metadata.Document, error) {
	d, err := r.Driver(store)
	if err != nil {
		return nil, err
	}
	return d.LoadMetadata(ctx, store)
}

// LoadSchema loads a schema with the driver of its location
func (r *Resolver) LoadSchema(ctx context.Context, loc string) (interface{}, error) {
	d, err := r.Driver(loc)
	if err != nil {
		return nil, err
	}
	return d.LoadSchema(ctx, loc)
}
