package dictionary

import (
	"context"
	"sync"
)

var (
	defaultOnce sync.Once
	defaultSet  *WordSet
	defaultErr  error
)

// Init loads the process-wide WordSet from src. Only the first call loads;
// later calls return the same set and error regardless of src.
func Init(ctx context.Context, src Source) (*WordSet, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Load(ctx, src)
	})
	return defaultSet, defaultErr
}

// Default returns the process-wide WordSet, loading the embedded word list
// if Init was never called.
func Default() (*WordSet, error) {
	return Init(context.Background(), Embedded())
}
