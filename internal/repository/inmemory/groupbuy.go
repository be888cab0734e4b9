package inmemory

import (
	"sync"
	"time"

	groupbuydomain "linkcook-go/internal/domain/groupbuy"
)

type InMemoryGroupBuyCache struct {
	mu    sync.RWMutex
	items map[string]groupBuyItem
}

type groupBuyItem struct {
	value     groupbuydomain.GroupBuy
	expiresAt time.Time
}

func NewInMemoryGroupBuyCache() *InMemoryGroupBuyCache {
	return &InMemoryGroupBuyCache{
		items: make(map[string]groupBuyItem),
	}
}

func (c *InMemoryGroupBuyCache) Get(id string) (*groupbuydomain.GroupBuy, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[id]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, id)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneGroupBuy(&item.value), true
}

func (c *InMemoryGroupBuyCache) Set(id string, groupBuy *groupbuydomain.GroupBuy, ttl time.Duration) {
	if groupBuy == nil || ttl <= 0 {
		c.Delete(id)
		return
	}

	c.mu.Lock()
	c.items[id] = groupBuyItem{
		value:     *cloneGroupBuy(groupBuy),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryGroupBuyCache) Delete(id string) {
	c.mu.Lock()
	delete(c.items, id)
	c.mu.Unlock()
}

func cloneGroupBuy(groupBuy *groupbuydomain.GroupBuy) *groupbuydomain.GroupBuy {
	cloned := *groupBuy
	if groupBuy.OwnerID != nil {
		ownerID := *groupBuy.OwnerID
		cloned.OwnerID = &ownerID
	}
	if groupBuy.Participants != nil {
		cloned.Participants = append([]groupbuydomain.Participant(nil), groupBuy.Participants...)
	}
	if groupBuy.BookmarkedBy != nil {
		cloned.BookmarkedBy = append([]string(nil), groupBuy.BookmarkedBy...)
	}
	return &cloned
}
