package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"bingwall/internal/bing"
	"bingwall/internal/wallpaper"

	"github.com/joho/godotenv"
)

const bingURL = "https://www.bing.com"

func main() {
	_ = godotenv.Load()

	width := flag.Int("w", 1920, "wallpaper width")
	height := flag.Int("h", 1080, "wallpaper height")
	count := flag.Int("n", 1, "number of wallpapers, newest first")
	index := flag.Int("idx", 0, "days back from today")
	market := flag.String("mkt", "en-US", "market, e.g. en-US")
	flag.Parse()

	if err := run(*width, *height, *count, *index, *market); err != nil {
		fmt.Fprintln(os.Stderr, "fetch error: "+err.Error())
		os.Exit(1)
	}
}

func run(width, height, count, index int, market string) error {
	ctx := context.Background()

	httpClient := &http.Client{Timeout: time.Second * 15}
	fetcher := &bing.Client{HC: httpClient}

	client, err := wallpaper.New(bingURL, fetcher)
	if err != nil {
		return err
	}

	res, err := wallpaper.NewResolution(width, height)
	if err != nil {
		return err
	}

	images, err := client.GetWallpaper(ctx, wallpaper.Query{
		Resolution: &res,
		Count:      count,
		Index:      index,
		Market:     market,
	})
	if err != nil {
		return err
	}

	for _, img := range images {
		fmt.Printf("%s  %s\n    %s\n", img.StartDate.Format("2006-01-02"), img.Copyright, img.URL)
	}

	return nil
}
