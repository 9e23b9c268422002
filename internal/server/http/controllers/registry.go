package controllers

import (
	"net/http"

	"github.com/ar0085/status-page/internal/history"
	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/internal/runtime"
	statussvc "github.com/ar0085/status-page/internal/services/status"
	"github.com/ar0085/status-page/internal/tenant"
	"github.com/ar0085/status-page/pkg/log"
)

// Deps carries the shared dependencies of all controllers.
type Deps struct {
	Orgs       *tenant.Store
	Catalog    *statussvc.Manager
	Manager    *notify.Manager
	Logger     log.Logger
	SendBuffer int
	// History is optional; nil disables the /v1/events routes.
	History *history.Store
}

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general     *GeneralController
	orgs        *OrgsController
	services    *ServicesController
	incidents   *IncidentsController
	maintenance *MaintenanceController
	public      *PublicController
	events      *EventsController
	realtime    *RealtimeController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, deps Deps) *ControllerRegistry {
	return &ControllerRegistry{
		general:     NewGeneralController(rt),
		orgs:        NewOrgsController(deps.Orgs),
		services:    NewServicesController(deps.Catalog),
		incidents:   NewIncidentsController(deps.Catalog),
		maintenance: NewMaintenanceController(deps.Catalog),
		public:      NewPublicController(deps.Catalog),
		events:      NewEventsController(deps.History),
		realtime:    NewRealtimeController(deps.Manager, deps.Logger, deps.SendBuffer),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.orgs.RegisterRoutes(mux)
	r.services.RegisterRoutes(mux)
	r.incidents.RegisterRoutes(mux)
	r.maintenance.RegisterRoutes(mux)
	r.public.RegisterRoutes(mux)
	r.events.RegisterRoutes(mux)
	r.realtime.RegisterRoutes(mux)
}
