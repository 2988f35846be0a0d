package metadata

import (
	"context"
	"sync"

	"doctree/internal/doctype"
)

// FetchDefinitions pulls the module's complete doctype set: the top
// level doctypes first, then the table doctypes, each with its fields.
// Field listings run on a bounded worker pool while the result keeps
// the listing order. The first failure cancels the rest and no partial
// set is returned.
func (c *Client) FetchDefinitions(ctx context.Context, module string) ([]doctype.Definition, error) {
	main, err := c.ListDoctypes(ctx, module, false)
	if err != nil {
		return nil, err
	}
	child, err := c.ListDoctypes(ctx, module, true)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(main)+len(child))
	seen := make(map[string]bool, len(main)+len(child))
	for _, name := range append(main, child...) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []doctype.Definition{}, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	defs := make([]doctype.Definition, len(names))

	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	workers := c.workers
	if workers > len(names) {
		workers = len(names)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				fields, err := c.FetchFields(runCtx, names[idx])
				if err != nil {
					fail(err)
					return
				}
				defs[idx] = doctype.Definition{Name: names[idx], Fields: fields}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range names {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}
