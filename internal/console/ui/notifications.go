package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/vova4o/labconsole/internal/console/forms"
)

// notificationsScreen sends a push notification to every app user. The form
// stays open and is cleared after each successful send.
func (u *UI) notificationsScreen() fyne.CanvasObject {
	title := widget.NewEntry()
	title.SetPlaceHolder("Title")
	body := widget.NewMultiLineEntry()
	body.SetPlaceHolder("Message")
	body.Wrapping = fyne.TextWrapWord

	form := forms.NewController(forms.Config[forms.NotificationDraft]{
		Name: "Notification",
		Validate: func(d forms.NotificationDraft, _ forms.State) error {
			return forms.ValidateNotification(d)
		},
		Submit: func(ctx context.Context, _ forms.State, d forms.NotificationDraft) error {
			return u.api.SendNotification(ctx, d.ToModel())
		},
		SuccessMessage: "Notification sent",
		Notifier:       u.toaster,
		Logger:         u.logger,
	})

	send := widget.NewButtonWithIcon("Send", theme.MailSendIcon(), nil)
	send.Importance = widget.HighImportance

	form.OnStateChange(func(s forms.State) {
		switch s {
		case forms.Submitting:
			send.Disable()
		case forms.Closed:
			title.SetText("")
			body.SetText("")
			_ = form.OpenCreate(forms.NotificationDraft{})
			send.Enable()
		default:
			send.Enable()
		}
	})
	_ = form.OpenCreate(forms.NotificationDraft{})

	send.OnTapped = func() {
		if err := form.Edit(func(d *forms.NotificationDraft) {
			d.Title = title.Text
			d.Body = body.Text
		}); err != nil {
			return
		}
		u.async(func() {
			form.Submit(u.ctx)
		})
	}

	return container.NewVBox(
		widget.NewLabelWithStyle("Send a notification to all app users", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Title", title),
			widget.NewFormItem("Message", body),
		),
		container.NewHBox(send),
	)
}
