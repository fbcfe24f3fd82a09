package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cast"
	"github.com/vova4o/labconsole/internal/console/forms"
	"github.com/vova4o/labconsole/internal/console/listview"
	"github.com/vova4o/labconsole/internal/console/models"
)

func (u *UI) unionsScreen() fyne.CanvasObject {
	unions := listview.New(listview.Options[models.Union]{
		Field: func(un models.Union) string { return un.Name },
		Less:  func(a, b models.Union) bool { return a.OrderRank < b.OrderRank },
		Fetch: u.stores.Unions.GetAll,
	})

	view := newCrudView(u, crudConfig[models.Union, forms.UnionDraft]{
		what:  "Union",
		store: u.stores.Unions,
		view:  unions,
		columns: []column[models.Union]{
			{title: "Name", value: func(un models.Union) string { return un.Name }},
			{title: "Discount %", value: func(un models.Union) string { return cast.ToString(un.DisCount) }},
			{title: "Rank", value: func(un models.Union) string { return cast.ToString(un.OrderRank) }},
		},
		searchHint: "Search by name",
		newDraft:   func() forms.UnionDraft { return forms.UnionDraft{} },
		draftFrom:  forms.UnionDraftFrom,
		validate: func(d forms.UnionDraft, mode forms.State) error {
			return forms.ValidateUnion(d, mode, unions)
		},
		toPayload: forms.UnionDraft.ToModel,
		release: func(d forms.UnionDraft) {
			d.Image.Release(u.previews)
		},
		body: u.unionForm,
		link: func(un models.Union) string { return un.ImageURL },
	})

	return view.content()
}

func (u *UI) unionForm(w fyne.Window, form *forms.Controller[forms.UnionDraft]) formBody[forms.UnionDraft] {
	d := form.Draft()

	name := widget.NewEntry()
	name.SetText(d.Name)
	discount := widget.NewEntry()
	discount.SetPlaceHolder("0 - 100")
	discount.SetText(d.DisCount)
	rank := widget.NewEntry()
	rank.SetText(d.OrderRank)

	picker := u.imagePicker(w, d.Image, u.limits.UnionImage, func(fn func(f *forms.ImageField)) error {
		return form.Edit(func(d *forms.UnionDraft) { fn(&d.Image) })
	})

	return formBody[forms.UnionDraft]{
		content: container.NewVBox(
			widget.NewForm(
				widget.NewFormItem("Name", name),
				widget.NewFormItem("Discount %", discount),
				widget.NewFormItem("Order rank", rank),
			),
			picker,
		),
		collect: func(d *forms.UnionDraft) {
			d.Name = name.Text
			d.DisCount = discount.Text
			d.OrderRank = rank.Text
		},
	}
}
