package common

import (
	"errors"
	"sync"
)

// RunParallel runs the given functions in parallel and aggregates their
// errors with errors.Join. The second return value is the number of
// functions that failed.
func RunParallel(funcs ...func() error) (error, int) {
	var wg sync.WaitGroup
	errCh := make(chan error, len(funcs))

	for _, fn := range funcs {
		wg.Add(1)
		go func(fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				errCh <- err
			}
		}(fn)
	}
	wg.Wait()
	close(errCh)

	var allErrs []error
	for err := range errCh {
		allErrs = append(allErrs, err)
	}
	return errors.Join(allErrs...), len(allErrs)
}
