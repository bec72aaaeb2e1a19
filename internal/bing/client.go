package bing

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
)

var tracer = otel.Tracer("bingwall/internal/bing")

// ListResponse is one decoded page of the Bing image archive.
type ListResponse struct {
	Market string
	Images []Image
}

// Image is one raw archive record. Date fields are kept as the archive's
// string encodings; normalization happens downstream.
type Image struct {
	StartDate     string
	FullStartDate string
	EndDate       string
	URL           string
	URLBase       string
	Copyright     string
	CopyrightLink string
	Title         string
	WP            bool
}

type ListQuery struct {
	Count  int
	Index  int
	Market string
}

type Client struct {
	HC *http.Client
}

// List fetches one page of the image archive from baseURL. Markets must be
// well-formed BCP 47 tags; an empty market lets Bing pick one.
func (c *Client) List(ctx context.Context, baseURL string, q ListQuery) (*ListResponse, error) {
	if q.Market != "" {
		if _, err := language.Parse(q.Market); err != nil {
			return nil, errors.Wrapf(err, "market %q", q.Market)
		}
	}

	url := fmt.Sprintf("%s/HPImageArchive.aspx?format=js&n=%d&idx=%d", baseURL, q.Count, q.Index)
	if q.Market != "" {
		url += "&mkt=" + q.Market
	}

	ctx, span := tracer.Start(ctx, "bing.List", trace.WithAttributes(
		attribute.Int("count", q.Count),
		attribute.Int("index", q.Index),
		attribute.String("market", q.Market),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HC.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get image archive")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("image archive: status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read image archive")
	}

	lr, err := decodeList(b)
	if err != nil {
		return nil, errors.Wrap(err, "decode image archive")
	}

	return lr, nil
}

func decodeList(data []byte) (*ListResponse, error) {
	lr := new(ListResponse)
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "market":
			return d.Obj(func(d *jx.Decoder, key string) error {
				if key != "mkt" {
					return d.Skip()
				}
				v, err := d.Str()
				if err != nil {
					return err
				}
				lr.Market = v
				return nil
			})
		case "images":
			return d.Arr(func(d *jx.Decoder) error {
				img, err := decodeImage(d)
				if err != nil {
					return err
				}
				lr.Images = append(lr.Images, img)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, err
	}

	return lr, nil
}

func decodeImage(d *jx.Decoder) (Image, error) {
	var img Image
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "startdate":
			img.StartDate, err = d.Str()
		case "fullstartdate":
			img.FullStartDate, err = d.Str()
		case "enddate":
			img.EndDate, err = d.Str()
		case "url":
			img.URL, err = d.Str()
		case "urlbase":
			img.URLBase, err = d.Str()
		case "copyright":
			img.Copyright, err = d.Str()
		case "copyrightlink":
			img.CopyrightLink, err = d.Str()
		case "title":
			img.Title, err = d.Str()
		case "wp":
			img.WP, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return img, err
}
