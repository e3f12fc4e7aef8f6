package store

// Keyer derives storage keys for library blocks and designs.
type Keyer interface {
	LibraryKey(name string) string
	DesignKey(name string) string
	LibraryPrefix() string
	DesignPrefix() string
}

// DefaultKeyer produces "library:<name>" and "design:<name>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LibraryKey returns the key of a library block.
func (DefaultKeyer) LibraryKey(name string) string { return "library:" + name }

// DesignKey returns the key of a design.
func (DefaultKeyer) DesignKey(name string) string { return "design:" + name }

// LibraryPrefix is the common prefix of every library key.
func (DefaultKeyer) LibraryPrefix() string { return "library:" }

// DesignPrefix is the common prefix of every design key.
func (DefaultKeyer) DesignPrefix() string { return "design:" }

// ScopedKeyer wraps a Keyer with a prefix so that several teams or
// projects can share one backend.
//
// Example usage:
//
//	// Project-specific keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:alu:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LibraryKey returns the prefixed key of a library block.
func (k *ScopedKeyer) LibraryKey(name string) string {
	return k.prefix + k.inner.LibraryKey(name)
}

// DesignKey returns the prefixed key of a design.
func (k *ScopedKeyer) DesignKey(name string) string {
	return k.prefix + k.inner.DesignKey(name)
}

// LibraryPrefix returns the prefixed library key prefix.
func (k *ScopedKeyer) LibraryPrefix() string {
	return k.prefix + k.inner.LibraryPrefix()
}

// DesignPrefix returns the prefixed design key prefix.
func (k *ScopedKeyer) DesignPrefix() string {
	return k.prefix + k.inner.DesignPrefix()
}
