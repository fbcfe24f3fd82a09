package forms

import (
	"context"

	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/toast"
)

// Deleter removes an entity by id
type Deleter interface {
	Delete(ctx context.Context, id int) error
}

// Remove issues exactly one delete for id and refreshes the list on success
func Remove(ctx context.Context, id int, store Deleter, refresh func(context.Context) error, notifier toast.Notifier, what string) error {
	if err := store.Delete(ctx, id); err != nil {
		notifier.Error("Could not delete " + what + ": " + handlers.UserMessage(err, what))
		return err
	}

	if refresh != nil {
		if err := refresh(ctx); err != nil {
			notifier.Error(what + " deleted, but the list could not be refreshed")
		}
	}
	notifier.Success(what + " deleted successfully")
	return nil
}
