package closer

import "errors"

type (
	Closer interface {
		Close() error
	}

	// CloserGroup closes a set of resources in the order they were added,
	// collecting every error instead of stopping at the first one.
	CloserGroup struct {
		closers []Closer
	}
)

func NewCloserGroup(closers ...Closer) *CloserGroup {
	return &CloserGroup{
		closers: closers,
	}
}

func (c *CloserGroup) Add(closer Closer) {
	c.closers = append(c.closers, closer)
}

func (c *CloserGroup) Close() error {
	var errs []error

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
