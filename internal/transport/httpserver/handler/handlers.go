package handler

import (
	commonhandler "linkcook-go/internal/transport/httpserver/handler/common"
	groupbuyshandler "linkcook-go/internal/transport/httpserver/handler/groupbuys"
	recipeshandler "linkcook-go/internal/transport/httpserver/handler/recipes"
	shareshandler "linkcook-go/internal/transport/httpserver/handler/shares"
)

type Handlers struct {
	Common    *commonhandler.Handlers
	GroupBuys *groupbuyshandler.Handlers
	Recipes   *recipeshandler.Handlers
	Shares    *shareshandler.Handlers
}

func New(common *commonhandler.Handlers, groupBuys *groupbuyshandler.Handlers, recipes *recipeshandler.Handlers, shares *shareshandler.Handlers) *Handlers {
	return &Handlers{
		Common:    common,
		GroupBuys: groupBuys,
		Recipes:   recipes,
		Shares:    shares,
	}
}
