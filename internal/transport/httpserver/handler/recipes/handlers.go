package recipes

import (
	engagementdomain "linkcook-go/internal/domain/engagement"
	recipedomain "linkcook-go/internal/domain/recipe"
	"linkcook-go/pkg/logger"
)

type Recorder interface {
	ObserveToggle(kind string, isMember bool)
}

type Handlers struct {
	Recipes    *recipedomain.Service
	Engagement *engagementdomain.Service
	metrics    Recorder
	log        logger.Logger
}

func New(recipes *recipedomain.Service, engagement *engagementdomain.Service, metrics Recorder, log logger.Logger) *Handlers {
	return &Handlers{
		Recipes:    recipes,
		Engagement: engagement,
		metrics:    metrics,
		log:        log,
	}
}
