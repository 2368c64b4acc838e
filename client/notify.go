package client

// Navigator receives route decisions. The CLI prints them; a UI shell
// would change views.
type Navigator interface {
	Navigate(path string)
}

// Notifier surfaces transient user-facing messages.
type Notifier interface {
	Success(message string)
	Warning(message string)
	Error(message string)
}

// Application routes referenced by session flows and guards.
const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteAdmin     = "/admin"
	RouteKYC       = "/kyc-verification"
)

// NopNavigator discards navigation, for flows that run headless.
type NopNavigator struct{}

func (NopNavigator) Navigate(string) {}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Warning(string) {}
func (NopNotifier) Error(string)   {}
