package ui

import (
	"context"
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/pkg/errors"
	"github.com/vova4o/labconsole/internal/console/forms"
	"github.com/vova4o/labconsole/internal/console/imagecodec"
	"golang.org/x/sync/errgroup"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

func newLink(text, raw string) fyne.CanvasObject {
	link, err := url.Parse(raw)
	if err != nil || raw == "" {
		return widget.NewLabel(text)
	}
	return widget.NewHyperlink(text, link)
}

// refreshAll runs the refreshers concurrently and returns the first error
func refreshAll(ctx context.Context, refreshers ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, refresh := range refreshers {
		refresh := refresh
		g.Go(func() error {
			return refresh(ctx)
		})
	}
	return g.Wait()
}

// imagePicker is the image row of a form. A picked file is encoded, checked
// against limit and stored in the draft through edit right away so that a
// cancelled form releases its preview.
func (u *UI) imagePicker(w fyne.Window, initial forms.ImageField, limit int64,
	edit func(fn func(f *forms.ImageField)) error) fyne.CanvasObject {
	preview := canvas.NewImageFromResource(nil)
	preview.FillMode = canvas.ImageFillContain
	preview.SetMinSize(fyne.NewSize(180, 120))

	info := widget.NewLabel("No image selected")
	current := fyne.CanvasObject(widget.NewLabel(""))
	if initial.Existing != "" {
		info.SetText("Current image is kept unless you choose another one")
		current = newLink("Open current image", u.api.ImageURL(initial.Existing))
	}

	pick := widget.NewButtonWithIcon("Choose image", theme.FolderOpenIcon(), func() {
		open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				u.toaster.Error("Could not open the file: " + err.Error())
				return
			}
			if rc == nil {
				return
			}
			defer rc.Close()

			enc, err := imagecodec.Encode(rc.URI().Name(), rc, limit)
			if err != nil {
				u.toaster.Error(imageMessage(err, limit))
				return
			}
			u.showPicked(enc, preview, info, edit)
		}, w)
		open.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
		open.Show()
	})

	return container.NewVBox(container.NewHBox(pick, current), info, preview)
}

func (u *UI) showPicked(enc *imagecodec.Encoded, preview *canvas.Image, info *widget.Label,
	edit func(fn func(f *forms.ImageField)) error) {
	var handle string
	if err := edit(func(f *forms.ImageField) {
		f.Replace(u.previews, enc)
		handle = f.Preview
	}); err != nil {
		u.toaster.Info("Wait for the current save to finish")
		return
	}

	if res, ok := u.previews.Resource(handle); ok {
		preview.Resource = res
		preview.Refresh()
	}
	info.SetText(fmt.Sprintf("%s (%s)", enc.Name, imagecodec.HumanSize(enc.Size)))
}

func imageMessage(err error, limit int64) string {
	switch {
	case errors.Is(err, imagecodec.ErrTooLarge):
		return "Image is larger than " + imagecodec.HumanSize(limit) + ", choose a smaller file"
	case errors.Is(err, imagecodec.ErrNotImage):
		return "The selected file is not an image"
	default:
		return "Could not read the image: " + err.Error()
	}
}
