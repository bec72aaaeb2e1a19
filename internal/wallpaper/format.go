package wallpaper

import (
	"time"

	"bingwall/internal/bing"

	"github.com/go-faster/errors"
)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "200601021504"
)

// Image is one normalized wallpaper record.
type Image struct {
	StartDate     time.Time `json:"startDate"`
	FullStartDate time.Time `json:"fullStartDate"`
	EndDate       time.Time `json:"endDate"`
	URL           string    `json:"url"`
	Copyright     string    `json:"copyright"`
	CopyrightLink string    `json:"copyrightLink"`
}

// format maps raw archive records to normalized Images, preserving order.
// force, when set, is embedded in each image URL.
func (c *Client) format(lr *bing.ListResponse, force *Resolution) ([]Image, error) {
	if lr == nil || len(lr.Images) == 0 {
		return []Image{}, nil
	}

	images := make([]Image, 0, len(lr.Images))
	for _, raw := range lr.Images {
		img, err := c.formatOne(raw, force)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	return images, nil
}

func (c *Client) formatOne(raw bing.Image, force *Resolution) (Image, error) {
	startDate, err := parseDate(dateLayout, raw.StartDate)
	if err != nil {
		return Image{}, err
	}

	fullStartDate, err := parseDate(dateTimeLayout, raw.FullStartDate)
	if err != nil {
		return Image{}, err
	}

	endDate, err := parseDate(dateLayout, raw.EndDate)
	if err != nil {
		return Image{}, err
	}

	u := c.baseURL + raw.URL
	if force != nil {
		u, err = RewriteURL(u, *force)
		if err != nil {
			return Image{}, err
		}
	}

	return Image{
		StartDate:     startDate,
		FullStartDate: fullStartDate,
		EndDate:       endDate,
		URL:           u,
		Copyright:     raw.Copyright,
		CopyrightLink: raw.CopyrightLink,
	}, nil
}

func parseDate(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "%q", value)
	}
	return t, nil
}
