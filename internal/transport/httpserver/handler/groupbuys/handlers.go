package groupbuys

import (
	"net/http"

	engagementdomain "linkcook-go/internal/domain/engagement"
	groupbuydomain "linkcook-go/internal/domain/groupbuy"
	"linkcook-go/pkg/logger"
)

// Publisher receives snapshots after every mutation.
type Publisher interface {
	Publish(topic, messageType string, data any)
	Serve(w http.ResponseWriter, r *http.Request, topic string, load func() (any, error)) error
}

type Recorder interface {
	ObserveJoin(outcome string)
	ObserveToggle(kind string, isMember bool)
}

type Handlers struct {
	GroupBuys  *groupbuydomain.Service
	Engagement *engagementdomain.Service
	live       Publisher
	metrics    Recorder
	log        logger.Logger
}

// New wires the group-buy handlers. live and metrics may be nil.
func New(groupBuys *groupbuydomain.Service, engagement *engagementdomain.Service, live Publisher, metrics Recorder, log logger.Logger) *Handlers {
	return &Handlers{
		GroupBuys:  groupBuys,
		Engagement: engagement,
		live:       live,
		metrics:    metrics,
		log:        log,
	}
}

func Topic(id string) string {
	return "groupbuy:" + id
}
