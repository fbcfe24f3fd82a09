package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cast"
	"github.com/vova4o/labconsole/internal/console/forms"
	"github.com/vova4o/labconsole/internal/console/listview"
	"github.com/vova4o/labconsole/internal/console/models"
)

const clientsPageSize = 7

const noUnion = "No union"

func (u *UI) clientsScreen() fyne.CanvasObject {
	clients := listview.New(listview.Options[models.Client]{
		PageSize: clientsPageSize,
		Field:    func(c models.Client) string { return c.Phone },
		Filter:   func(c models.Client, key string) bool { return c.Address == key },
		Less:     func(a, b models.Client) bool { return a.ID > b.ID },
		Fetch:    u.stores.Clients.GetAll,
	})
	unions := listview.New(listview.Options[models.Union]{Fetch: u.stores.Unions.GetAll})
	labs := listview.New(listview.Options[models.LabTest]{Fetch: u.stores.LabTests.GetAll})

	unionNames := func() []string {
		var names []string
		for _, un := range unions.Items() {
			names = append(names, un.Name)
		}
		return names
	}

	coinsButton := widget.NewButtonWithIcon("Add coins", theme.ContentAddIcon(), func() {
		u.coinsWindow(clients, labs, clients.Refresh)
	})

	view := newCrudView(u, crudConfig[models.Client, forms.ClientDraft]{
		what:  "Client",
		store: u.stores.Clients,
		view:  clients,
		columns: []column[models.Client]{
			{title: "Name", value: func(c models.Client) string { return c.Name }},
			{title: "Phone", value: func(c models.Client) string { return c.Phone }},
			{title: "Gender", value: func(c models.Client) string { return forms.GenderLabel(c.Gender) }},
			{title: "Coins", value: func(c models.Client) string { return cast.ToString(c.Bonus) }},
			{title: "Union", value: func(c models.Client) string { return c.Address }},
		},
		searchHint: "Search by phone",
		filterHint: "All unions",
		filterKeys: unionNames,
		newDraft:   forms.NewClientDraft,
		draftFrom:  forms.ClientDraftFrom,
		validate: func(d forms.ClientDraft, _ forms.State) error {
			return forms.ValidateClient(d, clients)
		},
		toPayload: forms.ClientDraft.ToModel,
		body: func(_ fyne.Window, form *forms.Controller[forms.ClientDraft]) formBody[forms.ClientDraft] {
			return clientForm(form.Draft(), unionNames())
		},
		toolbar: []fyne.CanvasObject{coinsButton},
		load: func(ctx context.Context) error {
			if err := refreshAll(ctx, unions.Refresh, labs.Refresh); err != nil {
				return err
			}
			return clients.Refresh(ctx)
		},
	})

	return view.content()
}

func clientForm(d forms.ClientDraft, unionNames []string) formBody[forms.ClientDraft] {
	name := widget.NewEntry()
	name.SetText(d.Name)
	phone := widget.NewEntry()
	phone.SetPlaceHolder("10 digits")
	phone.SetText(d.Phone)
	gender := widget.NewRadioGroup([]string{forms.GenderMaleLabel, forms.GenderFemaleLabel}, nil)
	gender.Horizontal = true
	gender.SetSelected(forms.GenderLabel(d.Gender))
	coins := widget.NewEntry()
	coins.SetText(d.Coins)
	options := append([]string{noUnion}, unionNames...)
	if d.Union != "" && !slices.Contains(unionNames, d.Union) {
		options = append(options, d.Union)
	}
	union := widget.NewSelect(options, nil)
	if d.Union != "" {
		union.SetSelected(d.Union)
	} else {
		union.SetSelected(noUnion)
	}

	return formBody[forms.ClientDraft]{
		content: widget.NewForm(
			widget.NewFormItem("Name", name),
			widget.NewFormItem("Phone", phone),
			widget.NewFormItem("Gender", gender),
			widget.NewFormItem("Coins", coins),
			widget.NewFormItem("Union", union),
		),
		collect: func(d *forms.ClientDraft) {
			d.Name = name.Text
			d.Phone = phone.Text
			d.Gender = forms.NormalizeGender(gender.Selected)
			d.Coins = coins.Text
			d.Union = union.Selected
			if d.Union == noUnion {
				d.Union = ""
			}
		},
	}
}

// coinsWindow adds coins to a client for the lab tests they took
func (u *UI) coinsWindow(clients forms.Lookup[models.Client], labs forms.Lookup[models.LabTest],
	refresh func(context.Context) error) {
	w := u.newWindow("Add coins", fyne.NewSize(480, 520))

	phone := widget.NewEntry()
	phone.SetPlaceHolder("Client phone")

	type labLine struct {
		lab      models.LabTest
		check    *widget.Check
		discount *widget.Entry
	}
	var lines []labLine
	rows := container.NewVBox()
	for _, lab := range labs.Items() {
		discount := widget.NewEntry()
		discount.SetPlaceHolder("Discount %")
		line := labLine{
			lab:      lab,
			check:    widget.NewCheck(fmt.Sprintf("%s (%s)", lab.Name, cast.ToString(lab.Price)), nil),
			discount: discount,
		}
		lines = append(lines, line)
		rows.Add(container.NewGridWithColumns(2, line.check, line.discount))
	}
	if len(lines) == 0 {
		rows.Add(widget.NewLabel("No lab tests loaded"))
	}

	var addButton *widget.Button
	addButton = widget.NewButton("Add coins", func() {
		draft := forms.CoinsDraft{Phone: strings.TrimSpace(phone.Text)}
		for _, line := range lines {
			if line.check.Checked {
				draft.Lines = append(draft.Lines, forms.CoinsLine{LabID: line.lab.ID, Discount: line.discount.Text})
			}
		}

		addButton.Disable()
		u.async(func() {
			defer addButton.Enable()
			if err := forms.AddCoins(u.ctx, draft, clients, labs, u.api, refresh, u.toaster); err == nil {
				w.Close()
			}
		})
	})
	addButton.Importance = widget.HighImportance

	w.SetContent(container.NewBorder(
		widget.NewForm(widget.NewFormItem("Phone", phone)),
		container.NewCenter(container.NewHBox(widget.NewButton("Cancel", w.Close), addButton)),
		nil, nil,
		container.NewVScroll(rows),
	))
	w.Show()
}
