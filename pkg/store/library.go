package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	errs "github.com/matzehuels/casperflow/pkg/errors"
	pkgio "github.com/matzehuels/casperflow/pkg/io"
	"github.com/matzehuels/casperflow/pkg/observability"
)

// Library reads and writes library blocks and designs in a Store.
type Library struct {
	store Store
	keyer Keyer
}

// NewLibrary returns a Library over s. A nil keyer uses DefaultKeyer.
func NewLibrary(s Store, keyer Keyer) *Library {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &Library{store: s, keyer: keyer}
}

// Store returns the underlying store.
func (l *Library) Store() Store { return l.store }

// PutBlock stores lm under its own name, replacing any previous version.
func (l *Library) PutBlock(ctx context.Context, lm pkgio.LibraryModule) error {
	if err := errs.ValidateName(lm.Name); err != nil {
		return err
	}
	if err := lm.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidLibrary, err, "block %q", lm.Name)
	}
	var buf bytes.Buffer
	if err := pkgio.WriteLibrary(lm, &buf); err != nil {
		return err
	}
	return l.put(ctx, l.keyer.LibraryKey(lm.Name), buf.Bytes())
}

// Block loads the block called name. A missing block wraps ErrNotFound.
func (l *Library) Block(ctx context.Context, name string) (pkgio.LibraryModule, error) {
	data, err := l.get(ctx, l.keyer.LibraryKey(name))
	if err != nil {
		return pkgio.LibraryModule{}, fmt.Errorf("block %q: %w", name, err)
	}
	lm, err := pkgio.ReadLibrary(bytes.NewReader(data))
	if err != nil {
		return pkgio.LibraryModule{}, errs.Wrap(errs.ErrCodeInvalidLibrary, err, "stored block %q", name)
	}
	return lm, nil
}

// Blocks lists the names of all stored blocks.
func (l *Library) Blocks(ctx context.Context) ([]string, error) {
	return l.names(ctx, l.keyer.LibraryPrefix())
}

// DeleteBlock removes the block called name.
func (l *Library) DeleteBlock(ctx context.Context, name string) error {
	key := l.keyer.LibraryKey(name)
	return RetryWithBackoff(ctx, func() error { return l.store.Delete(ctx, key) })
}

// PutDesign stores d under name.
func (l *Library) PutDesign(ctx context.Context, name string, d pkgio.Design) error {
	if err := errs.ValidateName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := pkgio.WriteDesign(d, &buf); err != nil {
		return err
	}
	return l.put(ctx, l.keyer.DesignKey(name), buf.Bytes())
}

// Design loads the design called name.
func (l *Library) Design(ctx context.Context, name string) (pkgio.Design, error) {
	data, err := l.get(ctx, l.keyer.DesignKey(name))
	if err != nil {
		return pkgio.Design{}, fmt.Errorf("design %q: %w", name, err)
	}
	d, err := pkgio.ReadDesign(bytes.NewReader(data))
	if err != nil {
		return pkgio.Design{}, errs.Wrap(errs.ErrCodeInvalidDesign, err, "stored design %q", name)
	}
	return d, nil
}

// Designs lists the names of all stored designs.
func (l *Library) Designs(ctx context.Context) ([]string, error) {
	return l.names(ctx, l.keyer.DesignPrefix())
}

// DeleteDesign removes the design called name.
func (l *Library) DeleteDesign(ctx context.Context, name string) error {
	key := l.keyer.DesignKey(name)
	return RetryWithBackoff(ctx, func() error { return l.store.Delete(ctx, key) })
}

func (l *Library) put(ctx context.Context, key string, data []byte) error {
	err := RetryWithBackoff(ctx, func() error { return l.store.Set(ctx, key, data, 0) })
	if err == nil {
		observability.Store().OnStoreSet(ctx, l.store.Backend(), len(data))
	}
	return err
}

func (l *Library) get(ctx context.Context, key string) ([]byte, error) {
	var (
		data []byte
		hit  bool
	)
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = l.store.Get(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !hit {
		observability.Store().OnStoreMiss(ctx, l.store.Backend())
		return nil, ErrNotFound
	}
	observability.Store().OnStoreHit(ctx, l.store.Backend())
	return data, nil
}

func (l *Library) names(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := RetryWithBackoff(ctx, func() error {
		var err error
		keys, err = l.store.List(ctx, prefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = strings.TrimPrefix(k, prefix)
	}
	return names, nil
}
