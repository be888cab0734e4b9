package groupbuy

import "time"

type Cache interface {
	Get(id string) (*GroupBuy, bool)
	Set(id string, groupBuy *GroupBuy, ttl time.Duration)
	Delete(id string)
}

type noopCache struct{}

func (noopCache) Get(string) (*GroupBuy, bool) {
	return nil, false
}

func (noopCache) Set(string, *GroupBuy, time.Duration) {}

func (noopCache) Delete(string) {}
