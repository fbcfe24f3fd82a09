package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/models"
	"github.com/vova4o/labconsole/internal/console/toast"
)

// CoinsLine is a lab test picked in the coins dialog with its discount
type CoinsLine struct {
	LabID    int
	Discount string
}

// CoinsDraft is the editable state of the coins dialog
type CoinsDraft struct {
	Phone string `validate:"required,len=10,number" label:"Phone"`
	Lines []CoinsLine
}

// CoinsUpdater sends a coin balance
type CoinsUpdater interface {
	UpdateCoins(ctx context.Context, update models.CoinsUpdate) error
}

// CoinsTotal sums price * discount / 100 over the picked lab tests. A lab
// test missing from labs is rejected.
func CoinsTotal(lines []CoinsLine, labs Lookup[models.LabTest]) (float64, error) {
	byID := make(map[int]models.LabTest)
	for _, l := range labs.Items() {
		byID[l.ID] = l
	}

	total := 0.0
	for _, line := range lines {
		lab, ok := byID[line.LabID]
		if !ok {
			return 0, invalid("Lab tests", "Lab test %d is not loaded, refresh the list", line.LabID)
		}
		discount, err := parsePercent("Discount of "+lab.Name, line.Discount)
		if err != nil {
			return 0, err
		}
		total += lab.Price * discount / 100
	}
	return total, nil
}

// PrepareCoins validates the dialog and builds the update of the client
// owning the phone
func PrepareCoins(d CoinsDraft, clients Lookup[models.Client], labs Lookup[models.LabTest]) (models.CoinsUpdate, float64, error) {
	d.Phone = strings.TrimSpace(d.Phone)
	if err := checkStruct(d); err != nil {
		return models.CoinsUpdate{}, 0, err
	}
	if len(d.Lines) == 0 {
		return models.CoinsUpdate{}, 0, invalid("Lab tests", "Pick at least one lab test")
	}

	var owner *models.Client
	for _, c := range clients.Items() {
		if c.Phone == d.Phone {
			c := c
			owner = &c
			break
		}
	}
	if owner == nil {
		return models.CoinsUpdate{}, 0, invalid("Phone", "No client is registered with phone %s", d.Phone)
	}

	total, err := CoinsTotal(d.Lines, labs)
	if err != nil {
		return models.CoinsUpdate{}, 0, err
	}
	if total <= 0 {
		return models.CoinsUpdate{}, 0, invalid("Discount", "The picked lab tests add no coins, enter a discount")
	}
	return models.CoinsUpdate{Phone: owner.Phone, Coins: owner.Bonus + total}, total, nil
}

// AddCoins validates the dialog, sends the new balance and refreshes the clients
func AddCoins(ctx context.Context, d CoinsDraft, clients Lookup[models.Client], labs Lookup[models.LabTest],
	updater CoinsUpdater, refresh func(context.Context) error, notifier toast.Notifier) error {
	update, total, err := PrepareCoins(d, clients, labs)
	if err != nil {
		notifier.Error(err.Error())
		return err
	}

	if err := updater.UpdateCoins(ctx, update); err != nil {
		notifier.Error(handlers.UserMessage(err, "Coins"))
		return err
	}

	if refresh != nil {
		if err := refresh(ctx); err != nil {
			notifier.Error("Coins added, but the list could not be refreshed")
		}
	}
	notifier.Success(fmt.Sprintf("Added %s coins to %s", formatAmount(total), update.Phone))
	return nil
}

func formatAmount(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
