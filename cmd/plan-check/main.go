package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/storage"
	"github.com/mmdatafocus/plant_inventory/utils"
)

func main() {
	colour := flag.String("colour", "", "Required: colour to plan (e.g. Charcoal)")
	product := flag.String("product", string(models.ProductEnviroshake), "Product: Enviroshake, Enviroslate or Enviroshingle")
	lotType := flag.String("type", string(models.LotTypeBundle), "Lot type: Bundle, Cap or a cap size such as \"Cap 2-3\"")
	units := flag.Int("units", 0, "Optional: units to produce; shortfalls are reported against this target")
	timeout := flag.Duration("timeout", 2*time.Minute, "Time allowed for connecting to the snapshot backend")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := config.LoadAppConfig()
	logger := config.GetLogger()
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s backend: %v\n", cfg.SnapshotBackend, err)
		os.Exit(1)
	}
	defer closeStore()

	inv := models.NewInventory(models.WithStore(store), models.WithLogger(logger))
	inv.Load(ctx)

	result, err := inv.Plan(models.PlanRequest{
		Colour:  *colour,
		Product: models.Product(*product),
		Type:    models.LotType(*lotType),
		Units:   *units,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "plan failed: %v\n", err)
		os.Exit(1)
	}

	out, err := utils.MarshalToPrettyJSON(result)
	utils.ErrorPanic(err)
	fmt.Println(string(out))
	if len(result.Shortfalls) > 0 {
		os.Exit(2)
	}
}
