package vault

import "container/list"

// lruCache keeps recently read note contents keyed by path and modification
// time, so repeated resolutions of the same card set avoid rereading files
// that have not changed.
type lruCache struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
}

type cacheEntry struct {
	key   string
	value string
}

func newLRUCache(size int) *lruCache {
	return &lruCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

func (c *lruCache) Get(key string) (string, bool) {
	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		return ele.Value.(*cacheEntry).value, true
	}
	return "", false
}

func (c *lruCache) Put(key, value string) {
	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		ele.Value.(*cacheEntry).value = value
		return
	}

	ele := c.evictList.PushFront(&cacheEntry{key, value})
	c.items[key] = ele

	if c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

func (c *lruCache) removeOldest() {
	ele := c.evictList.Back()
	if ele != nil {
		c.removeElement(ele)
	}
}

func (c *lruCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*cacheEntry)
	delete(c.items, kv.key)
}
