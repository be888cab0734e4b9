package shares

import (
	engagementdomain "linkcook-go/internal/domain/engagement"
	sharedomain "linkcook-go/internal/domain/share"
	"linkcook-go/pkg/logger"
)

type Recorder interface {
	ObserveToggle(kind string, isMember bool)
}

type Handlers struct {
	Shares     *sharedomain.Service
	Engagement *engagementdomain.Service
	metrics    Recorder
	log        logger.Logger
}

func New(shares *sharedomain.Service, engagement *engagementdomain.Service, metrics Recorder, log logger.Logger) *Handlers {
	return &Handlers{
		Shares:     shares,
		Engagement: engagement,
		metrics:    metrics,
		log:        log,
	}
}
