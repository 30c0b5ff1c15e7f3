package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"bitbucket.org/mmdatafocus/catalog_backend/workflow"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	businessID := flag.String("business-id", "", "Required: business id (uuid)")
	itemID := flag.Int("item-id", 0, "Optional: item id, defaults to every item of the business")
	acceptMissing := flag.Bool("accept-missing", false, "Confirm missing combinations and save the item")
	dryRun := flag.Bool("dry-run", false, "Report only, never save")
	continueOnError := flag.Bool("continue-on-error", false, "Skip failing items and continue with the others")
	flag.Parse()

	if strings.TrimSpace(*businessID) == "" {
		fmt.Fprintln(os.Stderr, "--business-id is required")
		os.Exit(1)
	}
	if _, err := uuid.Parse(strings.TrimSpace(*businessID)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid business id: %v\n", err)
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	logger := logrus.New()
	ctx := utils.SetBusinessIdInContext(context.Background(), strings.TrimSpace(*businessID))
	ctx = utils.SetUsernameInContext(ctx, "sku-matrix-rebuild")

	var items []*models.Item
	if *itemID > 0 {
		item, err := utils.FetchModel[models.Item](ctx, *businessID, *itemID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "item %d: %v\n", *itemID, err)
			os.Exit(1)
		}
		items = append(items, item)
	} else {
		var err error
		if items, err = utils.FetchAllModels[models.Item](ctx, *businessID); err != nil {
			fmt.Fprintf(os.Stderr, "list items: %v\n", err)
			os.Exit(1)
		}
	}

	units, err := models.GetProductUnits(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load units: %v\n", err)
		os.Exit(1)
	}
	store := models.NewGormItemStore(db)

	for _, it := range items {
		if err := rebuildItem(ctx, os.Stdout, store, units, it.ID, *acceptMissing, *dryRun); err != nil {
			config.LogError(logger, "sku-matrix-rebuild", "rebuildItem", fmt.Sprintf("item %d", it.ID), nil, err)
			if *continueOnError {
				continue
			}
			os.Exit(1)
		}
	}

	fmt.Println("sku matrix rebuild complete")
}

func rebuildItem(ctx context.Context, out io.Writer, store workflow.ItemStore, units []*models.ProductUnit, itemId int, acceptMissing bool, dryRun bool) error {
	item, err := store.FetchItemDetail(ctx, itemId)
	if err != nil {
		return err
	}
	draft, err := models.NormalizeItem(item, units)
	if err != nil {
		return err
	}
	draft.Relink()
	stats := draft.RegenerateSkus(false)
	orphaned := draft.OrphanedSkus()
	missing := draft.MissingCombinations()

	fmt.Fprintf(out, "item=%d name=%q skus=%d candidates=%d missing=%d orphaned=%d pruned=%d\n",
		itemId, draft.Name, len(draft.Skus), stats.Candidates, len(missing), len(orphaned), stats.Pruned)
	for _, s := range orphaned {
		fmt.Fprintf(out, "  orphaned %s\n", s.Code)
	}
	codes := make([]string, 0, len(missing))
	for _, s := range missing {
		codes = append(codes, s.Code)
		fmt.Fprintf(out, "  missing %s\n", s.Code)
	}

	if !acceptMissing || len(codes) == 0 || dryRun {
		return nil
	}
	accepted := draft.AcceptCombinations(codes)
	payload := models.BuildItemPayload(draft)
	// Deterministic per item and code set.
	payload.IdempotencyKey = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d:%s", itemId, strings.Join(codes, ",")))).String()
	if _, err := store.SubmitItem(ctx, payload); err != nil {
		return err
	}
	fmt.Fprintf(out, "  saved %d new skus\n", len(accepted))
	return nil
}
