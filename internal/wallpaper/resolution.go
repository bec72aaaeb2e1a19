package wallpaper

import (
	"fmt"
	"regexp"

	"github.com/go-faster/errors"
)

// Resolution is a wallpaper size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func NewResolution(width, height int) (Resolution, error) {
	r := Resolution{Width: width, Height: height}
	if err := r.Validate(); err != nil {
		return Resolution{}, err
	}
	return r, nil
}

func (r Resolution) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return errors.Wrapf(ErrInvalidResolution, "%dx%d", r.Width, r.Height)
	}
	return nil
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// DefaultCatalog returns the resolutions Bing serves wallpapers at.
// Order matters: NearestResolution returns the last entry that fits, so the
// catalog is kept ascending.
func DefaultCatalog() []Resolution {
	return []Resolution{
		{240, 320},
		{320, 240},
		{400, 240},
		{480, 800},
		{640, 480},
		{720, 1280},
		{768, 1280},
		{800, 480},
		{800, 600},
		{1024, 768},
		{1280, 768},
		{1366, 768},
		{1920, 1080},
		{1920, 1200},
	}
}

// resolutionToken matches the size embedded in Bing image URLs, e.g. the
// "_1920x1080." in "/th?id=OHR.MauiWhale_EN-US1928366389_1920x1080.jpg".
var resolutionToken = regexp.MustCompile(`_\d+x\d+\.`)

// RewriteURL replaces the first resolution token in url with r. URLs without
// a token are returned unchanged.
func RewriteURL(url string, r Resolution) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	loc := resolutionToken.FindStringIndex(url)
	if loc == nil {
		return url, nil
	}

	return url[:loc[0]] + "_" + r.String() + "." + url[loc[1]:], nil
}
