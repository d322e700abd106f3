package parser

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"slices"
	"sort"

	"github.com/dgallion1/doctrans/internal/doctree"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pageImages returns the decoded images of page n. pdfcpu is run once per
// document; its output is grouped by page and ordered by object number.
func (d *pdfDocument) pageImages(n int) ([]doctree.ImageAsset, error) {
	d.imagesOnce.Do(func() {
		d.images, d.imagesErr = extractImages(d.data)
	})
	if d.imagesErr != nil {
		return nil, d.imagesErr
	}
	return slices.Clone(d.images[n]), nil
}

func extractImages(data []byte) (byPage map[int][]doctree.ImageAsset, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			byPage, err = nil, fmt.Errorf("pdfcpu panic: %v", rec)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.ExtractImagesRaw(bytes.NewReader(data), nil, conf)
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	type numbered struct {
		obj   int
		asset doctree.ImageAsset
	}
	grouped := make(map[int][]numbered)
	for _, imgs := range pages {
		for objNr, img := range imgs {
			if img.Reader == nil {
				continue
			}
			raw, err := io.ReadAll(img)
			if err != nil || len(raw) == 0 {
				continue
			}
			asset := doctree.ImageAsset{
				ID:     img.Name,
				Data:   raw,
				Width:  img.Width,
				Height: img.Height,
				Format: img.FileType,
			}
			// pdfcpu leaves the dimensions of rendered images unset.
			if asset.Width <= 0 || asset.Height <= 0 {
				if cfg, _, err := image.DecodeConfig(bytes.NewReader(raw)); err == nil {
					asset.Width, asset.Height = cfg.Width, cfg.Height
				}
			}
			grouped[img.PageNr] = append(grouped[img.PageNr], numbered{obj: objNr, asset: asset})
		}
	}

	byPage = make(map[int][]doctree.ImageAsset, len(grouped))
	for page, list := range grouped {
		sort.Slice(list, func(i, j int) bool { return list[i].obj < list[j].obj })
		for _, n := range list {
			byPage[page] = append(byPage[page], n.asset)
		}
	}
	return byPage, nil
}
