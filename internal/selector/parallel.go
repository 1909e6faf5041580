package selector

import (
	"context"
	"fmt"
	"sync"

	"github.com/TireMDO-25-26/sizing-core/internal/optimize"
	"github.com/TireMDO-25-26/sizing-core/pkg/config"
	"github.com/TireMDO-25-26/sizing-core/pkg/models"
)

type familyResult struct {
	family config.Family
	result *optimize.Result
}

// searchFamilies runs the backend over every family, at most maxParallel
// at a time. Results come back in the input family order regardless of
// completion order.
func (s *Selector) searchFamilies(ctx context.Context, req models.Requirement, families []config.Family, budget optimize.Budget) ([]familyResult, error) {
	if len(families) == 0 {
		return nil, fmt.Errorf("no families to search")
	}

	semaphore := make(chan struct{}, s.maxParallel)
	var wg sync.WaitGroup
	results := make([]familyResult, len(families))
	errs := make([]error, len(families))

	for i, family := range families {
		wg.Add(1)
		go func(idx int, f config.Family) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			space := optimize.SpaceFromFamily(f, req.RequiredSpeedIndex)
			res, err := s.backend.Search(ctx, space, s.objective(req), budget)
			if err != nil {
				errs[idx] = fmt.Errorf("family %s: %w", f.Name, err)
				return
			}
			results[idx] = familyResult{family: f, result: res}
		}(i, family)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
