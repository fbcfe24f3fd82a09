package ui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/vova4o/labconsole/internal/console/service"
)

var brandColor = color.NRGBA{R: 0x00, G: 0x5F, B: 0xA1, A: 0xFF}

// consoleTheme is the default theme pinned to one variant
type consoleTheme struct {
	variant fyne.ThemeVariant
}

func newConsoleTheme(v service.Variant) *consoleTheme {
	if v == service.Dark {
		return &consoleTheme{variant: theme.VariantDark}
	}
	return &consoleTheme{variant: theme.VariantLight}
}

func (t *consoleTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if name == theme.ColorNamePrimary {
		return brandColor
	}
	return theme.DefaultTheme().Color(name, t.variant)
}

func (t *consoleTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *consoleTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *consoleTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

func variantOf(v fyne.ThemeVariant) service.Variant {
	if v == theme.VariantDark {
		return service.Dark
	}
	return service.Light
}

// environmentVariant is the color scheme the operating system asks for
func (u *UI) environmentVariant() service.Variant {
	if u.app == nil {
		return service.Light
	}
	return variantOf(u.app.Settings().ThemeVariant())
}

func (u *UI) initTheme() {
	u.serv.OnThemeChange(u.applyTheme)

	if _, err := u.serv.InitTheme(u.ctx, u.environmentVariant()); err != nil {
		u.logger.Error("Failed to load theme preference: " + err.Error())
	}

	changes := make(chan fyne.Settings, 1)
	u.app.Settings().AddChangeListener(changes)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case s := <-changes:
				u.serv.EnvironmentChanged(variantOf(s.ThemeVariant()))
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	u.stopTheme = func() {
		once.Do(func() { close(done) })
		<-stopped
	}
}

func (u *UI) applyTheme(v service.Variant) {
	if u.app == nil {
		return
	}
	u.app.Settings().SetTheme(newConsoleTheme(v))
}

func (u *UI) toggleTheme() {
	v, err := u.serv.ToggleTheme(u.ctx)
	if err != nil {
		u.toaster.Error("Theme changed but could not be saved")
		return
	}
	u.logger.Debug("Theme is now " + string(v))
}

func (u *UI) resetTheme() {
	if _, err := u.serv.ResetTheme(u.ctx, u.environmentVariant()); err != nil {
		u.toaster.Error("Could not reset the theme preference")
		return
	}
	u.toaster.Info("Theme follows the system again")
}
