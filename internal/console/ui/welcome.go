package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/vova4o/labconsole/internal/console/forms"
	"github.com/vova4o/labconsole/internal/console/models"
)

func (u *UI) welcomeScreen() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Lab Console", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	doctorButton := widget.NewButton("Sign in as doctor", func() {
		u.role = models.RoleDoctor
		u.Navigate(models.RouteLogin)
	})
	doctorButton.Importance = widget.HighImportance

	assistantButton := widget.NewButton("Sign in as assistant", func() {
		u.role = models.RoleAssistant
		u.Navigate(models.RouteLogin)
	})

	return container.NewCenter(container.NewVBox(
		title,
		widget.NewLabel("Choose how you want to sign in"),
		doctorButton,
		assistantButton,
	))
}

func (u *UI) loginScreen() fyne.CanvasObject {
	draft := forms.LoginDraft{Role: u.role}

	identifierEntry := widget.NewEntry()
	identifierEntry.SetPlaceHolder(draft.IdentifierLabel())

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetPlaceHolder("Password")

	label := widget.NewLabel("")

	var loginButton *widget.Button
	loginButton = widget.NewButton("Login", func() {
		draft.Identifier = identifierEntry.Text
		draft.Password = passwordEntry.Text

		if err := forms.ValidateLogin(draft); err != nil {
			label.SetText(err.Error())
			u.toaster.Error(err.Error())
			return
		}

		loginButton.Disable()
		label.SetText("Signing in...")
		u.async(func() {
			defer loginButton.Enable()
			u.login(draft, label)
		})
	})
	loginButton.Importance = widget.HighImportance

	backButton := widget.NewButton("Back", func() {
		u.Navigate(models.RouteWelcome)
	})

	heading := "Doctor sign in"
	if u.role == models.RoleAssistant {
		heading = "Assistant sign in"
	}

	return container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle(heading, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		identifierEntry,
		passwordEntry,
		container.NewCenter(container.NewHBox(backButton, loginButton)),
		label,
	))
}

func (u *UI) login(draft forms.LoginDraft, label *widget.Label) {
	user, err := u.api.Login(u.ctx, draft.ToCredentials())
	if err != nil {
		u.logger.Error("Login failed: " + err.Error())
		label.SetText("Login failed")
		u.toaster.Error("Login failed: " + err.Error())
		return
	}

	u.serv.StartSession(user, draft.Role)
	u.toaster.Success("Welcome " + user.DisplayName())
	u.Navigate(models.RouteApp)
}
