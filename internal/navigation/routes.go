package navigation

// Application routes.
const (
	RootRoute     = "/"
	LoginRoute    = "/login"
	RegisterRoute = "/register"
	TodayRoute    = "/today"
	DiaryRoute    = "/diary"
	HistoryRoute  = "/history"
	SettingsRoute = "/settings"
)

// Route is one entry in the route table.
type Route struct {
	Path       string
	RedirectTo string // non-empty for pure redirects
	Protected  bool   // child of the authenticated layout; guarded
}

// DefaultRoutes is the application route table. The root redirects to the
// today page; login and register are public; every page of the main layout
// is protected.
func DefaultRoutes() []Route {
	return []Route{
		{Path: RootRoute, RedirectTo: TodayRoute},
		{Path: LoginRoute},
		{Path: RegisterRoute},
		{Path: TodayRoute, Protected: true},
		{Path: DiaryRoute, Protected: true},
		{Path: HistoryRoute, Protected: true},
		{Path: SettingsRoute, Protected: true},
	}
}

// FallbackRoute is where unknown paths end up.
const FallbackRoute = TodayRoute
