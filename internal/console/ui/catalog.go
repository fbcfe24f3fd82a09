package ui

import (
	"context"
	"fmt"
	"image/color"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cast"
	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/models"
	"golang.org/x/sync/errgroup"
)

// catalogGroup is one category with its lab tests
type catalogGroup struct {
	Category models.Category
	Labs     []models.LabTest
}

// groupCatalog orders categories by rank and places every lab test under its
// category. Lab tests of unknown categories are grouped last under "Other".
func groupCatalog(categories []models.Category, labs []models.LabTest) []catalogGroup {
	sorted := append([]models.Category(nil), categories...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderRank < sorted[j].OrderRank })

	index := make(map[int]int, len(sorted))
	groups := make([]catalogGroup, 0, len(sorted)+1)
	for _, c := range sorted {
		index[c.ID] = len(groups)
		groups = append(groups, catalogGroup{Category: c})
	}

	var other []models.LabTest
	for _, l := range labs {
		if i, ok := index[l.CategoryID]; ok {
			groups[i].Labs = append(groups[i].Labs, l)
		} else {
			other = append(other, l)
		}
	}
	for i := range groups {
		sort.SliceStable(groups[i].Labs, func(a, b int) bool {
			return groups[i].Labs[a].OrderRank < groups[i].Labs[b].OrderRank
		})
	}
	if len(other) > 0 {
		groups = append(groups, catalogGroup{Category: models.Category{Name: "Other"}, Labs: other})
	}
	return groups
}

func (u *UI) loadCatalog(ctx context.Context) ([]catalogGroup, error) {
	var (
		categories []models.Category
		labs       []models.LabTest
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = u.stores.Categories.GetAll(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		labs, err = u.stores.LabTests.GetAll(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groupCatalog(categories, labs), nil
}

// catalogScreen is the read-only list of every lab test by category
func (u *UI) catalogScreen() fyne.CanvasObject {
	groups := container.NewVBox(widget.NewLabel("Loading..."))

	u.async(func() {
		catalog, err := u.loadCatalog(u.ctx)
		if err != nil {
			u.logger.Error("Failed to load the catalog: " + err.Error())
			u.toaster.Error("Could not load lab tests: " + handlers.UserMessage(err, "Lab test"))
			groups.Objects = []fyne.CanvasObject{widget.NewLabel("Lab tests could not be loaded")}
			groups.Refresh()
			return
		}

		var objects []fyne.CanvasObject
		for _, group := range catalog {
			objects = append(objects, catalogCard(group))
		}
		if len(objects) == 0 {
			objects = append(objects, widget.NewLabel("No lab tests yet"))
		}
		groups.Objects = objects
		groups.Refresh()
	})

	return container.NewVScroll(groups)
}

func catalogCard(group catalogGroup) fyne.CanvasObject {
	rows := container.NewVBox()
	for _, l := range group.Labs {
		rows.Add(container.NewGridWithColumns(3,
			widget.NewLabel(l.Name),
			widget.NewLabel(cast.ToString(l.Price)),
			widget.NewLabel(fmt.Sprintf("%s coins", cast.ToString(l.Coins))),
		))
	}
	if len(group.Labs) == 0 {
		rows.Add(widget.NewLabel("No lab tests in this category"))
	}

	swatch := canvas.NewRectangle(parseHexColor(group.Category.ColorHexa))
	swatch.SetMinSize(fyne.NewSize(12, 12))

	return widget.NewCard("", "", container.NewVBox(
		container.NewHBox(swatch, widget.NewLabelWithStyle(group.Category.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})),
		rows,
	))
}

// parseHexColor reads #RRGGBB, anything else falls back to the brand color
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	if n, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 {
		return brandColor
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}
