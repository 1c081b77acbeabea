package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/servicedesk/config"
	"p9e.in/servicedesk/handlers"
	"p9e.in/servicedesk/middleware"
)

// RegisterRoutes builds the full route table. Call after config.Connect:
// the handlers capture the live DB handle.
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()
	db := config.DB

	auth := handlers.NewAuthHandler(db)

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", auth.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/auth/me", auth.Me).Methods("GET")
	api.HandleFunc("/auth/change-password", auth.ChangePassword).Methods("POST")

	// Directory and catalog resources
	registerResource(api, "/contacts", "contact", handlers.NewContactResource(db))
	registerResource(api, "/contact-types", "contact_type", handlers.NewContactTypeResource(db))
	registerResource(api, "/parts", "part", handlers.NewPartResource(db))
	registerResource(api, "/statuses", "status", handlers.NewStatusResource(db))

	// Workflow resources
	registerResource(api, "/inwards", "inward", handlers.NewInwardResource(db))

	jobcards := handlers.NewJobCardHandler(db)
	registerEndpoints(api, "/jobcards", "jobcard", resourceEndpoints{
		list:        jobcards.List,
		listTrash:   jobcards.ListTrash,
		get:         jobcards.Get,
		create:      jobcards.Create,
		update:      jobcards.Update,
		trash:       jobcards.Trash,
		restore:     jobcards.Restore,
		forceDelete: jobcards.ForceDelete,
	})

	assignments := handlers.NewAssignmentHandler(db)
	registerEndpoints(api, "/assignments", "assignment", resourceEndpoints{
		list:        assignments.List,
		listTrash:   assignments.ListTrash,
		get:         assignments.Get,
		create:      assignments.Create,
		update:      assignments.Update,
		trash:       assignments.Trash,
		restore:     assignments.Restore,
		forceDelete: assignments.ForceDelete,
	})

	outservices := handlers.NewOutServiceHandler(db)
	registerEndpoints(api, "/outservices", "outservice", resourceEndpoints{
		list:        outservices.List,
		listTrash:   outservices.ListTrash,
		get:         outservices.Get,
		create:      outservices.Create,
		update:      outservices.Update,
		trash:       outservices.Trash,
		restore:     outservices.Restore,
		forceDelete: outservices.ForceDelete,
	})

	deliveries := handlers.NewDeliveryHandler(db)
	registerEndpoints(api, "/deliveries", "delivery", resourceEndpoints{
		list:        deliveries.List,
		listTrash:   deliveries.ListTrash,
		get:         deliveries.Get,
		create:      deliveries.Create,
		update:      deliveries.Update,
		trash:       deliveries.Trash,
		restore:     deliveries.Restore,
		forceDelete: deliveries.ForceDelete,
	})
	api.Handle("/deliveries/{id}/confirm",
		middleware.RequirePermission("delivery:update")(http.HandlerFunc(deliveries.Confirm))).
		Methods("POST")

	registerResource(api, "/calllogs", "calllog", handlers.NewCallLogResource(db))

	// Threaded notes on inwards and call logs
	notes := handlers.NewNoteHandlers(db)
	api.Handle("/inwards/{id}/notes",
		middleware.RequirePermission("note:viewAny")(http.HandlerFunc(notes.ListInwardNotes))).
		Methods("GET")
	api.Handle("/inwards/{id}/notes",
		middleware.RequirePermission("note:create")(http.HandlerFunc(notes.AddInwardNote))).
		Methods("POST")
	api.Handle("/inward-notes/{noteId}",
		middleware.RequirePermission("note:update")(http.HandlerFunc(notes.EditInwardNote))).
		Methods("PUT")
	api.Handle("/inward-notes/{noteId}",
		middleware.RequirePermission("note:delete")(http.HandlerFunc(notes.DeleteInwardNote))).
		Methods("DELETE")
	api.Handle("/calllogs/{id}/notes",
		middleware.RequirePermission("note:viewAny")(http.HandlerFunc(notes.ListCallLogNotes))).
		Methods("GET")
	api.Handle("/calllogs/{id}/notes",
		middleware.RequirePermission("note:create")(http.HandlerFunc(notes.AddCallLogNote))).
		Methods("POST")
	api.Handle("/calllog-notes/{noteId}",
		middleware.RequirePermission("note:update")(http.HandlerFunc(notes.EditCallLogNote))).
		Methods("PUT")
	api.Handle("/calllog-notes/{noteId}",
		middleware.RequirePermission("note:delete")(http.HandlerFunc(notes.DeleteCallLogNote))).
		Methods("DELETE")

	// Personal todos: owner-scoped, no admin view
	todos := handlers.NewTodoHandler(db)
	registerEndpoints(api, "/todos", "todo", resourceEndpoints{
		list:        todos.List,
		listTrash:   todos.ListTrash,
		create:      todos.Create,
		update:      todos.Update,
		trash:       todos.Trash,
		restore:     todos.Restore,
		forceDelete: todos.ForceDelete,
	})
	api.Handle("/todos/reorder",
		middleware.RequirePermission("todo:update")(http.HandlerFunc(todos.Reorder))).
		Methods("POST")

	// Register exports
	exports := handlers.NewExportHandler(db)
	api.Handle("/export/inwards",
		middleware.RequirePermission("export:viewAny")(http.HandlerFunc(exports.ExportInwards))).
		Methods("GET")
	api.Handle("/export/jobcards",
		middleware.RequirePermission("export:viewAny")(http.HandlerFunc(exports.ExportJobCards))).
		Methods("GET")

	// =====================================================
	// Admin Routes
	// =====================================================
	users := handlers.NewUserHandler(db)
	registerEndpoints(api, "/users", "user", resourceEndpoints{
		list:        users.List,
		listTrash:   users.ListTrash,
		get:         users.Get,
		create:      users.Create,
		update:      users.Update,
		trash:       users.Trash,
		restore:     users.Restore,
		forceDelete: users.ForceDelete,
	})

	roles := handlers.NewRoleHandler(db)
	registerEndpoints(api, "/roles", "role", resourceEndpoints{
		list:        roles.List,
		listTrash:   roles.ListTrash,
		get:         roles.Get,
		create:      roles.Create,
		update:      roles.Update,
		trash:       roles.Trash,
		restore:     roles.Restore,
		forceDelete: roles.ForceDelete,
	})
	api.Handle("/roles/{id}/permissions",
		middleware.RequirePermission("role:update")(http.HandlerFunc(roles.SetPermissions))).
		Methods("PUT")

	perms := handlers.NewPermissionHandler(db)
	registerEndpoints(api, "/permissions", "permission", resourceEndpoints{
		list:        perms.List,
		listTrash:   perms.ListTrash,
		get:         perms.Get,
		create:      perms.Create,
		update:      perms.Update,
		trash:       perms.Trash,
		restore:     perms.Restore,
		forceDelete: perms.ForceDelete,
	})

	return r
}

// resourceEndpoints maps the uniform surface; nil slots are skipped (todos
// have no admin show endpoint, for instance).
type resourceEndpoints struct {
	list        http.HandlerFunc
	listTrash   http.HandlerFunc
	get         http.HandlerFunc
	create      http.HandlerFunc
	update      http.HandlerFunc
	trash       http.HandlerFunc
	restore     http.HandlerFunc
	forceDelete http.HandlerFunc
}

// registerResource wires a plain Resource onto the uniform route shape.
func registerResource[T any](api *mux.Router, prefix, resource string, res *handlers.Resource[T]) {
	registerEndpoints(api, prefix, resource, resourceEndpoints{
		list:        res.List,
		listTrash:   res.ListTrash,
		get:         res.Get,
		create:      res.Create,
		update:      res.Update,
		trash:       res.Trash,
		restore:     res.Restore,
		forceDelete: res.ForceDelete,
	})
}

// registerEndpoints attaches one entity's routes, each behind its
// "resource:action" permission. Trash listing rides on the delete
// permission: whoever can put things in the trash may look at it.
func registerEndpoints(api *mux.Router, prefix, resource string, eps resourceEndpoints) {
	guard := func(action string, h http.HandlerFunc) http.Handler {
		return middleware.RequirePermission(resource + ":" + action)(h)
	}

	if eps.list != nil {
		api.Handle(prefix, guard("viewAny", eps.list)).Methods("GET")
	}
	if eps.listTrash != nil {
		api.Handle(prefix+"/trash", guard("delete", eps.listTrash)).Methods("GET")
	}
	if eps.create != nil {
		api.Handle(prefix, guard("create", eps.create)).Methods("POST")
	}
	if eps.restore != nil {
		api.Handle(prefix+"/{id}/restore", guard("restore", eps.restore)).Methods("POST")
	}
	if eps.forceDelete != nil {
		api.Handle(prefix+"/{id}/force", guard("forceDelete", eps.forceDelete)).Methods("DELETE")
	}
	if eps.get != nil {
		api.Handle(prefix+"/{id}", guard("view", eps.get)).Methods("GET")
	}
	if eps.update != nil {
		api.Handle(prefix+"/{id}", guard("update", eps.update)).Methods("PUT")
	}
	if eps.trash != nil {
		api.Handle(prefix+"/{id}", guard("delete", eps.trash)).Methods("DELETE")
	}
}
