package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cast"
	"github.com/vova4o/labconsole/internal/console/forms"
	"github.com/vova4o/labconsole/internal/console/listview"
	"github.com/vova4o/labconsole/internal/console/models"
)

func (u *UI) categoriesView() *listview.ListView[models.Category] {
	return listview.New(listview.Options[models.Category]{
		PageSize: 10,
		Field:    func(c models.Category) string { return c.Name },
		Less:     func(a, b models.Category) bool { return a.OrderRank < b.OrderRank },
		Fetch:    u.stores.Categories.GetAll,
	})
}

func categoryName(categories *listview.ListView[models.Category], id int) string {
	if c, ok := categories.Find(id); ok {
		return c.Name
	}
	return ""
}

func (u *UI) labTestsScreen() fyne.CanvasObject {
	categories := u.categoriesView()
	labs := listview.New(listview.Options[models.LabTest]{
		Field: func(l models.LabTest) string { return l.Name },
		Filter: func(l models.LabTest, key string) bool {
			return categoryName(categories, l.CategoryID) == key
		},
		Less:  func(a, b models.LabTest) bool { return a.OrderRank < b.OrderRank },
		Fetch: u.stores.LabTests.GetAll,
	})

	categoryNames := func() []string {
		var names []string
		for _, c := range categories.Items() {
			names = append(names, c.Name)
		}
		return names
	}

	categoriesButton := widget.NewButtonWithIcon("Categories", theme.ListIcon(), func() {
		u.categoriesWindow(categories)
	})

	view := newCrudView(u, crudConfig[models.LabTest, forms.LabTestDraft]{
		what:  "Lab test",
		store: u.stores.LabTests,
		view:  labs,
		columns: []column[models.LabTest]{
			{title: "Name", value: func(l models.LabTest) string { return l.Name }},
			{title: "Price", value: func(l models.LabTest) string { return cast.ToString(l.Price) }},
			{title: "Coins", value: func(l models.LabTest) string { return cast.ToString(l.Coins) }},
			{title: "Category", value: func(l models.LabTest) string { return categoryName(categories, l.CategoryID) }},
		},
		searchHint: "Search by name",
		filterHint: "All categories",
		filterKeys: categoryNames,
		newDraft:   func() forms.LabTestDraft { return forms.LabTestDraft{} },
		draftFrom:  forms.LabTestDraftFrom,
		validate: func(d forms.LabTestDraft, _ forms.State) error {
			return forms.ValidateLabTest(d, categories)
		},
		toPayload: forms.LabTestDraft.ToModel,
		release: func(d forms.LabTestDraft) {
			d.Image.Release(u.previews)
		},
		body: func(w fyne.Window, form *forms.Controller[forms.LabTestDraft]) formBody[forms.LabTestDraft] {
			return u.labTestForm(w, form, categories.Items())
		},
		link:    func(l models.LabTest) string { return l.ImageURL },
		toolbar: []fyne.CanvasObject{categoriesButton},
		load: func(ctx context.Context) error {
			if err := categories.Refresh(ctx); err != nil {
				return err
			}
			return labs.Refresh(ctx)
		},
	})
	categories.OnChange(view.render)

	return view.content()
}

func (u *UI) labTestForm(w fyne.Window, form *forms.Controller[forms.LabTestDraft],
	categories []models.Category) formBody[forms.LabTestDraft] {
	d := form.Draft()

	entry := func(text string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(text)
		return e
	}
	name := entry(d.Name)
	price := entry(d.Price)
	coins := entry(d.Coins)
	unionCoins := entry(d.UnionCoins)
	firstUnionCoins := entry(d.FirstUnionCoins)
	lastUnionCoins := entry(d.LastUnionCoins)

	ids := make(map[string]int, len(categories))
	var names []string
	for _, c := range categories {
		ids[c.Name] = c.ID
		names = append(names, c.Name)
	}
	category := widget.NewSelect(names, nil)
	category.PlaceHolder = "Pick a category"
	for _, c := range categories {
		if c.ID == d.CategoryID {
			category.SetSelected(c.Name)
		}
	}

	picker := u.imagePicker(w, d.Image, u.limits.LabImage, func(fn func(f *forms.ImageField)) error {
		return form.Edit(func(d *forms.LabTestDraft) { fn(&d.Image) })
	})

	return formBody[forms.LabTestDraft]{
		content: container.NewVBox(
			widget.NewForm(
				widget.NewFormItem("Name", name),
				widget.NewFormItem("Price", price),
				widget.NewFormItem("Coins", coins),
				widget.NewFormItem("Union coins", unionCoins),
				widget.NewFormItem("First union coins", firstUnionCoins),
				widget.NewFormItem("Last union coins", lastUnionCoins),
				widget.NewFormItem("Category", category),
			),
			picker,
		),
		collect: func(d *forms.LabTestDraft) {
			d.Name = name.Text
			d.Price = price.Text
			d.Coins = coins.Text
			d.UnionCoins = unionCoins.Text
			d.FirstUnionCoins = firstUnionCoins.Text
			d.LastUnionCoins = lastUnionCoins.Text
			d.CategoryID = ids[category.Selected]
		},
	}
}

// categoriesWindow manages the categories in their own window. The list
// is shared with the lab tests screen, so the view detaches when the window closes.
func (u *UI) categoriesWindow(categories *listview.ListView[models.Category]) (fyne.Window,
	*crudView[models.Category, forms.CategoryDraft]) {
	w := u.newWindow("Categories", fyne.NewSize(640, 520))

	view := newCrudView(u, crudConfig[models.Category, forms.CategoryDraft]{
		what:  "Category",
		store: u.stores.Categories,
		view:  categories,
		columns: []column[models.Category]{
			{title: "Rank", value: func(c models.Category) string { return cast.ToString(c.OrderRank) }},
			{title: "Name", value: func(c models.Category) string { return c.Name }},
			{title: "Color", value: func(c models.Category) string { return c.ColorHexa }},
		},
		searchHint: "Search by name",
		newDraft: func() forms.CategoryDraft {
			return forms.NewCategoryDraft(categories.Items())
		},
		draftFrom: forms.CategoryDraftFrom,
		validate: func(d forms.CategoryDraft, _ forms.State) error {
			return forms.ValidateCategory(d, categories)
		},
		toPayload: forms.CategoryDraft.ToModel,
		body: func(_ fyne.Window, form *forms.Controller[forms.CategoryDraft]) formBody[forms.CategoryDraft] {
			return categoryForm(form.Draft())
		},
	})

	w.SetOnClosed(view.close)
	w.SetContent(view.content())
	w.Show()
	return w, view
}

func categoryForm(d forms.CategoryDraft) formBody[forms.CategoryDraft] {
	name := widget.NewEntry()
	name.SetText(d.Name)
	rank := widget.NewEntry()
	rank.SetText(d.OrderRank)
	color := widget.NewEntry()
	color.SetPlaceHolder(forms.DefaultCategoryColor)
	color.SetText(d.ColorHexa)

	return formBody[forms.CategoryDraft]{
		content: widget.NewForm(
			widget.NewFormItem("Name", name),
			widget.NewFormItem("Order rank", rank),
			widget.NewFormItem("Color", color),
		),
		collect: func(d *forms.CategoryDraft) {
			d.Name = name.Text
			d.OrderRank = rank.Text
			d.ColorHexa = color.Text
		},
	}
}
