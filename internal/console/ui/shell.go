package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/vova4o/labconsole/internal/console/models"
	"github.com/vova4o/labconsole/internal/console/service"
)

var routeTitles = map[models.Route]string{
	models.RouteUsers:         "Clients",
	models.RouteLabTests:      "Lab tests",
	models.RouteUnions:        "Unions",
	models.RouteAds:           "Ads",
	models.RouteNotifications: "Notifications",
	models.RouteAllLabTests:   "All lab tests",
}

// shell wraps an application screen with navigation and session controls
func (u *UI) shell(active models.Route, screen fyne.CanvasObject) fyne.CanvasObject {
	session, _ := u.serv.Session()

	nav := container.NewVBox(
		widget.NewLabelWithStyle(session.User.DisplayName(), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(string(session.Role)),
		widget.NewSeparator(),
	)
	for _, route := range service.AllowedRoutes(session.Role) {
		route := route
		button := widget.NewButton(routeTitles[route], func() {
			u.Navigate(route)
		})
		if route == active {
			button.Importance = widget.HighImportance
		}
		nav.Add(button)
	}

	themeButton := widget.NewButtonWithIcon("Toggle theme", theme.ColorPaletteIcon(), u.toggleTheme)
	resetButton := widget.NewButton("Use system theme", u.resetTheme)
	logoutButton := widget.NewButtonWithIcon("Logout", theme.LogoutIcon(), func() {
		u.serv.EndSession()
		u.toaster.Info("Signed out")
		u.Navigate(models.RouteWelcome)
	})

	nav.Add(widget.NewSeparator())
	nav.Add(themeButton)
	nav.Add(resetButton)
	nav.Add(logoutButton)

	split := container.NewHSplit(container.NewVScroll(nav), screen)
	split.Offset = 0.2
	return split
}
