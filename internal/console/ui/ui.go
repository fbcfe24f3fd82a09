package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/vova4o/labconsole/internal/console/imagecodec"
	"github.com/vova4o/labconsole/internal/console/models"
	"github.com/vova4o/labconsole/internal/console/service"
	"github.com/vova4o/labconsole/internal/console/toast"
	"github.com/vova4o/labconsole/package/logger"
)

// Store is the remote CRUD accessor of one entity
type Store[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Add(ctx context.Context, item T) error
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, id int) error
}

// APIClienter covers the calls that are not plain CRUD
type APIClienter interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	UpdateCoins(ctx context.Context, update models.CoinsUpdate) error
	SendNotification(ctx context.Context, n models.Notification) error
	ImageURL(path string) string
}

// Servicer is the application state the screens read and change
type Servicer interface {
	InitTheme(ctx context.Context, env service.Variant) (service.Variant, error)
	EnvironmentChanged(env service.Variant)
	ToggleTheme(ctx context.Context) (service.Variant, error)
	ResetTheme(ctx context.Context, env service.Variant) (service.Variant, error)
	Theme() service.Variant
	ManualOverride() bool
	OnThemeChange(fn func(service.Variant))
	StartSession(user models.User, role models.Role) models.Session
	EndSession()
	Session() (models.Session, bool)
	Resolve(route models.Route) models.Route
}

// Stores groups the CRUD accessors of every screen
type Stores struct {
	Clients    Store[models.Client]
	LabTests   Store[models.LabTest]
	Categories Store[models.Category]
	Unions     Store[models.Union]
	Ads        Store[models.Ad]
}

// Limits are the image size ceilings in bytes
type Limits struct {
	LabImage   int64
	AdImage    int64
	UnionImage int64
}

// UI is the desktop console
type UI struct {
	ctx      context.Context
	api      APIClienter
	stores   Stores
	serv     Servicer
	logger   *logger.Logger
	limits   Limits
	appID    string
	previews *imagecodec.Previews
	toaster  toast.Notifier
	sink     *toast.Sink

	app     fyne.App
	window  fyne.Window
	status  *widget.Label
	route   models.Route
	role    models.Role
	content *fyne.Container

	// async runs network work off the event loop, tests make it synchronous
	async func(func())
	// stopTheme ends the watch on the system color scheme
	stopTheme func()
}

// NewUI creates a new UI instance
func NewUI(ctx context.Context, api APIClienter, stores Stores, serv Servicer, limits Limits, appID string, log *logger.Logger) *UI {
	u := &UI{
		ctx:      ctx,
		api:      api,
		stores:   stores,
		serv:     serv,
		logger:   log,
		limits:   limits,
		appID:    appID,
		previews: imagecodec.NewPreviews(),
		status:   widget.NewLabel(""),
		role:     models.RoleDoctor,
		async:    func(f func()) { go f() },
	}
	u.sink = toast.NewSink(32, u.showToast, log)
	u.toaster = u.sink
	return u
}

// RunUI starts the application and blocks until the window is closed
func (u *UI) RunUI() {
	a := app.NewWithID(u.appID)
	u.attach(a)
	u.window.ShowAndRun()
	u.stopTheme()
	u.sink.Close()
}

// attach builds the main window on a
func (u *UI) attach(a fyne.App) {
	u.app = a
	u.window = a.NewWindow("Lab Console")
	u.window.Resize(fyne.NewSize(1100, 720))
	u.content = container.NewStack()
	u.window.SetContent(container.NewBorder(nil, u.status, nil, nil, u.content))

	u.initTheme()
	u.Navigate(models.RouteWelcome)
}

// Route returns the route currently rendered
func (u *UI) Route() models.Route {
	return u.route
}

// Navigate renders the route the service resolves route to
func (u *UI) Navigate(route models.Route) {
	resolved := u.serv.Resolve(route)
	if resolved != route {
		u.logger.Debug("Route " + string(route) + " resolved to " + string(resolved))
	}
	u.route = resolved

	var screen fyne.CanvasObject
	switch resolved {
	case models.RouteWelcome:
		screen = u.welcomeScreen()
	case models.RouteLogin:
		screen = u.loginScreen()
	default:
		screen = u.shell(resolved, u.appScreen(resolved))
	}

	u.content.Objects = []fyne.CanvasObject{screen}
	u.content.Refresh()
}

func (u *UI) appScreen(route models.Route) fyne.CanvasObject {
	switch route {
	case models.RouteUsers:
		return u.clientsScreen()
	case models.RouteLabTests:
		return u.labTestsScreen()
	case models.RouteUnions:
		return u.unionsScreen()
	case models.RouteAds:
		return u.adsScreen()
	case models.RouteNotifications:
		return u.notificationsScreen()
	case models.RouteAllLabTests:
		return u.catalogScreen()
	default:
		return widget.NewLabel("Nothing here")
	}
}

func (u *UI) showToast(t toast.Toast) {
	prefix := "ℹ "
	switch t.Kind {
	case toast.Success:
		prefix = "✔ "
	case toast.Error:
		prefix = "✖ "
		if u.app != nil {
			u.app.SendNotification(fyne.NewNotification("Lab Console", t.Message))
		}
	}
	u.status.SetText(prefix + t.Message)
}

// newWindow opens a secondary window, the console's modal
func (u *UI) newWindow(title string, size fyne.Size) fyne.Window {
	w := u.app.NewWindow(title)
	w.Resize(size)
	return w
}
