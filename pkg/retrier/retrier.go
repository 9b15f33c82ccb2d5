// Package retrier provides small retry helpers for connecting to backends
// and for operations that may fail transiently.
package retrier

import "time"

// Connect attempts to establish a connection with retry logic.
//
// The connector runs up to retry times with a sleep of the given number of
// seconds between failed attempts. The first successful result is returned
// immediately; otherwise the last error wins.
func Connect[T any](retry uint8, sleep uint, connector func() (T, error)) (T, error) {
	var (
		out T
		err error
	)

	for range retry {
		out, err = connector()

		if err == nil {
			return out, nil
		}

		time.Sleep(time.Duration(sleep) * time.Second)
	}

	return out, err
}

// Do retries a plain operation the same way Connect retries a dial.
func Do(retry uint8, sleep uint, fn func() error) error {
	var err error

	for range retry {
		err = fn()

		if err == nil {
			return nil
		}

		time.Sleep(time.Duration(sleep) * time.Second)
	}

	return err
}
