package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/appetiteclub/apt"

	"github.com/smileworld/ktvpos/internal/catalog"
	"github.com/smileworld/ktvpos/internal/mongo"
)

// Restock records a purchase movement for one item: stock goes up and the
// ledger gets a purchase row, same path the service itself uses.
func Restock(ctx context.Context, config *apt.Config, logger apt.Logger, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: restock <item-id> <quantity> [note]")
	}

	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || itemID <= 0 {
		return fmt.Errorf("invalid item id %q", args[0])
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil || quantity <= 0 {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	note := strings.Join(args[2:], " ")

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	counters := mongo.NewCounters(db)
	itemRepo := mongo.NewMenuItemRepo(db, counters)
	ledgerRepo := mongo.NewStockTransactionRepo(db)
	stock := catalog.NewStockService(itemRepo, ledgerRepo, nil, logger)

	item, err := stock.Adjust(ctx, itemID, quantity, catalog.StockTxPurchase, "", note)
	if err != nil {
		return err
	}

	logger.Info("Restocked item", "item_id", item.ID, "name", item.Name, "stock", item.Stock)
	return nil
}
