package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth  = RouteApiV1 + "/auth"
	RouteLogin = RouteAuth + "/login"

	// files
	RouteFiles         = RouteApiV1 + "/files"
	RouteFile          = RouteFiles + "/:file_id"
	RouteFileLink      = RouteFile + "/link"
	RouteFileDownloads = RouteFile + "/downloads"

	// users
	RouteUsers       = RouteApiV1 + "/users"
	RouteUser        = RouteUsers + "/:user_id"
	RouteUserFiles   = RouteUser + "/files"
	RouteUserPremium = RouteUser + "/premium"

	// verification sessions
	RouteSessions = RouteApiV1 + "/sessions"
	RouteSession  = RouteSessions + "/:session_id"

	// public landing page
	RouteLanding = "/d/:file_id"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
