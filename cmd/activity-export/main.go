package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmdatafocus/plant_inventory/config"
	"github.com/mmdatafocus/plant_inventory/models"
	"github.com/mmdatafocus/plant_inventory/storage"
	"github.com/mmdatafocus/plant_inventory/utils"
)

func parseDay(label, s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid %s date: %v\n", label, err)
		os.Exit(1)
	}
	return &d
}

func main() {
	formatStr := flag.String("format", "csv", "Export format: csv, json or xlsx")
	outPath := flag.String("out", "", "Optional: write to this file instead of stdout")
	bucket := flag.String("bucket", "", "Optional: upload to this GCS bucket (defaults to GCS_BUCKET when -upload is set)")
	upload := flag.Bool("upload", false, "Upload the export to GCS")
	itemID := flag.String("item-id", "", "Optional: only entries for this item id")
	action := flag.String("action", "", "Optional: only entries with this action")
	user := flag.String("user", "", "Optional: only entries by this user")
	search := flag.String("search", "", "Optional: free text search")
	fromStr := flag.String("from", "", "Optional: first day (YYYY-MM-DD)")
	toStr := flag.String("to", "", "Optional: last day (YYYY-MM-DD), inclusive")
	flag.Parse()

	format, err := models.ParseExportFormat(*formatStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	filter := models.ActivityFilter{
		ItemId: strings.TrimSpace(*itemID),
		Action: strings.TrimSpace(*action),
		User:   strings.TrimSpace(*user),
		Search: strings.TrimSpace(*search),
		Start:  parseDay("from", *fromStr),
	}
	if to := parseDay("to", *toStr); to != nil {
		_, end := utils.DayRange(*to)
		filter.End = &end
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
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
	data := inv.ExportActivities(filter, format)

	if *upload || *bucket != "" {
		bucketName := *bucket
		if bucketName == "" {
			bucketName = cfg.GCSBucket
		}
		object := fmt.Sprintf("activity-exports/%s.%s", utils.GenerateUniqueFilename(), format)
		uri, err := utils.UploadToGCS(ctx, bucketName, object, utils.ExportContentType(string(format)), data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "upload failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "uploaded", uri)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", *outPath, err)
			os.Exit(1)
		}
		return
	}
	if !*upload && *bucket == "" {
		_, _ = os.Stdout.Write(data)
	}
}
