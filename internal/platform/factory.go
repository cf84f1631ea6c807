package platform

import (
	"context"

	"github.com/aretw0/studyshare/pkg/core"
)

// New initializes storage at uri and returns a loaded collection.
//
//	c, err := studyshare.New(ctx, "./notes", studyshare.WithAdapter("sqlite"))
func New(ctx context.Context, uri string, opts ...Option) (*core.Collection, error) {
	o := buildOptions(opts)

	backend, err := initBackend(ctx, uri, o)
	if err != nil {
		return nil, err
	}
	return open(ctx, backend, o)
}

// Open builds a collection over an already initialized backend and loads it.
func Open(ctx context.Context, backend core.Backend, opts ...Option) (*core.Collection, error) {
	return open(ctx, backend, buildOptions(opts))
}

func open(ctx context.Context, backend core.Backend, o *options) (*core.Collection, error) {
	store := core.NewNoteStore(backend, o.storageKey, o.logger)
	collection := core.NewCollection(store, core.CollectionConfig{
		Seed:     o.seed,
		ReadOnly: o.readOnly(),
		Clock:    o.clock,
		Logger:   o.logger,
	})
	if err := collection.Initialize(ctx); err != nil {
		return nil, err
	}
	return collection, nil
}
