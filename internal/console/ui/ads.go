package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cast"
	"github.com/vova4o/labconsole/internal/console/forms"
	"github.com/vova4o/labconsole/internal/console/listview"
	"github.com/vova4o/labconsole/internal/console/models"
)

// Ads have no edit form, an ad is replaced by deleting it and adding another
func (u *UI) adsScreen() fyne.CanvasObject {
	ads := listview.New(listview.Options[models.Ad]{
		Less:  func(a, b models.Ad) bool { return a.ID > b.ID },
		Fetch: u.stores.Ads.GetAll,
	})

	view := newCrudView(u, crudConfig[models.Ad, forms.AdDraft]{
		what:  "Ad",
		store: u.stores.Ads,
		view:  ads,
		columns: []column[models.Ad]{
			{title: "Ad", value: func(a models.Ad) string { return "#" + cast.ToString(a.ID) }},
		},
		newDraft: func() forms.AdDraft { return forms.AdDraft{} },
		validate: func(d forms.AdDraft, _ forms.State) error {
			return forms.ValidateAd(d)
		},
		toPayload: forms.AdDraft.ToModel,
		release: func(d forms.AdDraft) {
			d.Image.Release(u.previews)
		},
		body: func(w fyne.Window, form *forms.Controller[forms.AdDraft]) formBody[forms.AdDraft] {
			picker := u.imagePicker(w, forms.ImageField{}, u.limits.AdImage, func(fn func(f *forms.ImageField)) error {
				return form.Edit(func(d *forms.AdDraft) { fn(&d.Image) })
			})
			return formBody[forms.AdDraft]{
				content: widget.NewCard("", "Pick the ad image", picker),
				collect: func(*forms.AdDraft) {},
			}
		},
		link:   func(a models.Ad) string { return a.ImageURL },
		noEdit: true,
	})

	return view.content()
}
