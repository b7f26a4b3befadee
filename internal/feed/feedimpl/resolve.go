package feedimpl

import (
	"context"
	"sync"
)

// resolveTagID maps a tag to its upstream numeric ID, consulting the
// write-once cache first. An unknown tag yields ("", nil): it is skipped for
// this request, never fatal.
func (f *FeedImpl) resolveTagID(ctx context.Context, tag string) (string, error) {
	if id, ok := f.TagIDs.Get(tag); ok {
		return id, nil
	}

	id, err := f.Graph.SearchHashtag(ctx, tag)
	if err != nil {
		return "", err
	}
	f.TagIDs.Put(tag, id)
	return id, nil
}

// resolveTags resolves all tags concurrently, dropping the ones that fail or
// have no upstream match so one bad tag cannot abort the whole request.
func (f *FeedImpl) resolveTags(ctx context.Context, tags []string) map[string]string {
	resolved := make(map[string]string, len(tags))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, tag := range tags {
		wg.Add(1)
		go func(tag string) {
			defer wg.Done()
			id, err := f.resolveTagID(ctx, tag)
			if err != nil {
				f.Logger.Warn("Tag resolution failed, skipping tag", "tag", tag, "error", err)
				return
			}
			if id == "" {
				return
			}
			mu.Lock()
			resolved[tag] = id
			mu.Unlock()
		}(tag)
	}
	wg.Wait()
	return resolved
}
