package server

import "bingwall/internal/wallpaper"

type ListResponse struct {
	Data []wallpaper.Image `json:"data"`
}
