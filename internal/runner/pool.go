package runner

import "sync"

// LaunchAll drains the queued launches with at most parallel of them in
// flight. A failed launch never stops the rest; every error comes back.
func LaunchAll(parallel int, launches []func() error) []error {
	if parallel < 1 {
		parallel = 1
	}

	queue := make(chan func() error)
	errc := make(chan error, len(launches))

	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for launch := range queue {
				if err := launch(); err != nil {
					errc <- err
				}
			}
		}()
	}

	for _, launch := range launches {
		queue <- launch
	}
	close(queue)
	wg.Wait()
	close(errc)

	var errs []error
	for err := range errc {
		errs = append(errs, err)
	}
	return errs
}
