package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/vova4o/labconsole/internal/console/forms"
	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/listview"
	"github.com/vova4o/labconsole/internal/console/models"
)

type column[T any] struct {
	title string
	value func(T) string
}

// formBody renders the fields of a draft and copies the widgets back into it
type formBody[D any] struct {
	content fyne.CanvasObject
	collect func(d *D)
}

type crudConfig[T models.Entity, D any] struct {
	what        string
	store       Store[T]
	view        *listview.ListView[T]
	columns     []column[T]
	searchHint  string
	filterHint  string
	filterKeys  func() []string
	newDraft    func() D
	draftFrom   func(T) D
	validate    func(d D, mode forms.State) error
	toPayload   func(D) T
	release     func(D)
	body        func(w fyne.Window, form *forms.Controller[D]) formBody[D]
	link        func(T) string
	noEdit      bool
	toolbar     []fyne.CanvasObject
	// load replaces the default refresh of view, e.g. to fetch lookups too
	load func(ctx context.Context) error
}

func (cfg crudConfig[T, D]) refresh() func(ctx context.Context) error {
	if cfg.load != nil {
		return cfg.load
	}
	return cfg.view.Refresh
}

// crudView is the list, search, filter, paging and modal form of one entity
type crudView[T models.Entity, D any] struct {
	u    *UI
	cfg  crudConfig[T, D]
	form *forms.Controller[D]

	rows      *fyne.Container
	pageLabel *widget.Label
	filter    *widget.Select

	window     fyne.Window
	saveButton *widget.Button
	backButton *widget.Button

	detach func()
}

func newCrudView[T models.Entity, D any](u *UI, cfg crudConfig[T, D]) *crudView[T, D] {
	c := &crudView[T, D]{
		u:         u,
		cfg:       cfg,
		rows:      container.NewVBox(),
		pageLabel: widget.NewLabel(""),
	}

	c.form = forms.NewController(forms.Config[D]{
		Name:     cfg.what,
		Validate: cfg.validate,
		Submit: func(ctx context.Context, mode forms.State, d D) error {
			if mode == forms.OpenEdit {
				return cfg.store.Update(ctx, cfg.toPayload(d))
			}
			return cfg.store.Add(ctx, cfg.toPayload(d))
		},
		Refresh:  cfg.refresh(),
		Release:  cfg.release,
		Notifier: u.toaster,
		Logger:   u.logger,
	})
	c.form.OnStateChange(c.onFormState)
	c.detach = cfg.view.OnChange(c.render)
	return c
}

// close stops rendering changes of a view that outlives this screen
func (c *crudView[T, D]) close() {
	c.detach()
	if c.form.Cancel() == nil {
		c.closeWindow()
	}
}

// content builds the screen
func (c *crudView[T, D]) content() fyne.CanvasObject {
	search := widget.NewEntry()
	search.SetPlaceHolder(c.cfg.searchHint)
	search.SetText(c.cfg.view.Search())
	search.OnChanged = c.cfg.view.SetSearch

	top := container.NewVBox()
	bar := container.NewHBox()
	if c.cfg.body != nil {
		addButton := widget.NewButtonWithIcon("Add "+c.cfg.what, theme.ContentAddIcon(), func() {
			c.openForm(forms.OpenCreate, c.cfg.newDraft())
		})
		addButton.Importance = widget.HighImportance
		bar.Add(addButton)
	}
	for _, extra := range c.cfg.toolbar {
		bar.Add(extra)
	}
	bar.Add(widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), c.load))
	top.Add(bar)

	if c.cfg.searchHint != "" {
		top.Add(search)
	}
	if c.cfg.filterKeys != nil {
		c.filter = widget.NewSelect(nil, func(key string) {
			if key == c.cfg.filterHint {
				key = ""
			}
			c.cfg.view.SetFilter(key)
		})
		c.filter.PlaceHolder = c.cfg.filterHint
		if key := c.cfg.view.FilterKey(); key != "" {
			c.filter.Options = []string{key}
			c.filter.Selected = key
		}
		top.Add(c.filter)
	}

	prev := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), c.cfg.view.Prev)
	next := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), c.cfg.view.Next)
	pager := container.NewCenter(container.NewHBox(prev, c.pageLabel, next))

	c.render()
	c.load()

	return container.NewBorder(top, pager, nil, nil, container.NewVScroll(c.rows))
}

// load re-fetches the collection
func (c *crudView[T, D]) load() {
	c.u.async(func() {
		load := c.cfg.view.Refresh
		if c.cfg.load != nil {
			load = c.cfg.load
		}
		if err := load(c.u.ctx); err != nil {
			c.u.logger.Error("Failed to load " + c.cfg.what + " list: " + err.Error())
			c.u.toaster.Error("Could not load " + c.cfg.what + " list: " + handlers.UserMessage(err, c.cfg.what))
		}
	})
}

// render rebuilds the rows of the current page
func (c *crudView[T, D]) render() {
	if c.filter != nil && c.cfg.filterKeys != nil {
		c.filter.Options = append([]string{c.cfg.filterHint}, c.cfg.filterKeys()...)
		c.filter.Refresh()
	}

	header := container.NewGridWithColumns(len(c.cfg.columns) + 1)
	for _, col := range c.cfg.columns {
		header.Add(widget.NewLabelWithStyle(col.title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	}
	header.Add(widget.NewLabel(""))

	objects := []fyne.CanvasObject{header, widget.NewSeparator()}

	page := c.cfg.view.Page()
	if len(page) == 0 {
		objects = append(objects, widget.NewLabel("No "+c.cfg.what+" found"))
	}
	for _, item := range page {
		objects = append(objects, c.row(item), widget.NewSeparator())
	}

	c.rows.Objects = objects
	c.rows.Refresh()

	total := c.cfg.view.TotalPages()
	if total == 0 {
		total = 1
	}
	c.pageLabel.SetText(fmt.Sprintf("Page %d of %d (%d)", c.cfg.view.PageIndex(), total, len(c.cfg.view.Filtered())))
}

func (c *crudView[T, D]) row(item T) fyne.CanvasObject {
	cells := container.NewGridWithColumns(len(c.cfg.columns) + 1)
	for _, col := range c.cfg.columns {
		cells.Add(widget.NewLabel(col.value(item)))
	}

	actions := container.NewHBox()
	if c.cfg.link != nil {
		if link := c.cfg.link(item); link != "" {
			actions.Add(newLink("Image", c.u.api.ImageURL(link)))
		}
	}
	if c.cfg.body != nil && !c.cfg.noEdit {
		actions.Add(widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
			c.openForm(forms.OpenEdit, c.cfg.draftFrom(item))
		}))
	}
	actions.Add(widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		c.confirmDelete(item)
	}))
	cells.Add(actions)
	return cells
}

func (c *crudView[T, D]) confirmDelete(item T) {
	dialog.ShowConfirm("Delete "+c.cfg.what, fmt.Sprintf("Delete this %s? This cannot be undone.", c.cfg.what),
		func(ok bool) {
			if ok {
				c.remove(item)
			}
		}, c.u.window)
}

func (c *crudView[T, D]) remove(item T) {
	c.u.async(func() {
		forms.Remove(c.u.ctx, item.EntityID(), c.cfg.store, c.cfg.refresh(), c.u.toaster, c.cfg.what)
	})
}

// openForm shows the modal form window for a draft
func (c *crudView[T, D]) openForm(mode forms.State, draft D) {
	var err error
	if mode == forms.OpenEdit {
		err = c.form.OpenEdit(draft)
	} else {
		err = c.form.OpenCreate(draft)
	}
	if err != nil {
		c.u.toaster.Info("Wait for the current save to finish")
		return
	}

	if c.window != nil {
		c.window.Close()
	}

	title := "Add " + c.form.Name()
	if mode == forms.OpenEdit {
		title = "Edit " + c.form.Name()
	}
	w := c.u.newWindow(title, fyne.NewSize(460, 420))
	c.window = w

	body := c.cfg.body(w, c.form)

	c.saveButton = widget.NewButton("Save", func() {
		if err := c.form.Edit(body.collect); err != nil {
			return
		}
		c.u.async(func() {
			c.form.Submit(c.u.ctx)
		})
	})
	c.saveButton.Importance = widget.HighImportance
	c.backButton = widget.NewButton("Cancel", func() {
		if c.form.Cancel() == nil {
			c.closeWindow()
		}
	})

	w.SetCloseIntercept(func() {
		if c.form.Cancel() == nil {
			c.closeWindow()
		}
	})
	w.SetContent(container.NewBorder(nil, container.NewCenter(container.NewHBox(c.backButton, c.saveButton)), nil, nil,
		container.NewVScroll(body.content)))
	w.Show()
}

func (c *crudView[T, D]) onFormState(s forms.State) {
	switch s {
	case forms.Submitting:
		setEnabled(false, c.saveButton, c.backButton)
	case forms.Closed:
		c.closeWindow()
	default:
		setEnabled(true, c.saveButton, c.backButton)
	}
}

func (c *crudView[T, D]) closeWindow() {
	if c.window == nil {
		return
	}
	w := c.window
	c.window = nil
	w.Close()
}

func setEnabled(enabled bool, buttons ...*widget.Button) {
	for _, b := range buttons {
		if b == nil {
			continue
		}
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}
