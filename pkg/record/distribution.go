package record

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/dlovans/isorecord/pkg/catalogue"
)

// NewDistributionOption combines a format, an online resource and a distributor.
// The size element is omitted when sizeBytes is not positive, so a zero byte file
// is indistinguishable from an unknown size.
func NewDistributionOption(f catalogue.Format, res OnlineResource, distributor Contact, sizeBytes int64) DistributionOption {
	opt := DistributionOption{
		Format: &Format{
			Format:  f.Name,
			Href:    f.URL,
			Version: f.Version,
		},
		TransferOption: TransferOption{OnlineResource: res},
		Distributor:    distributor,
	}
	if sizeBytes > 0 {
		opt.TransferOption.Size = &Size{Magnitude: sizeBytes, Unit: "bytes"}
	}
	return opt
}

// DownloadDistributionOption describes a file download at url.
func DownloadDistributionOption(f catalogue.Format, url string, distributor Contact, sizeBytes int64) DistributionOption {
	res := OnlineResource{
		Href:        url,
		Title:       f.Name,
		Description: f.Description,
		Function:    "download",
	}
	return NewDistributionOption(f, res, distributor, sizeBytes)
}

// ServiceDistributionOption describes a service endpoint at url. The service's format
// is the catalogue format sharing its slug.
func ServiceDistributionOption(cat *catalogue.Catalogue, svc catalogue.Service, url string, distributor Contact) (DistributionOption, error) {
	f, ok := cat.Format(svc.Slug)
	if !ok {
		return DistributionOption{}, fmt.Errorf("%w: format for service %q", ErrMissingReference, svc.Slug)
	}
	res := OnlineResource{
		Href:        url,
		Title:       svc.Name,
		Description: svc.Description,
		Function:    "download",
	}
	return NewDistributionOption(f, res, distributor, 0), nil
}

// UpdateDistributionOption applies a partial update to opt using DeepMerge.
func UpdateDistributionOption(opt DistributionOption, patch Object) (DistributionOption, error) {
	base, err := ToObject(opt)
	if err != nil {
		return DistributionOption{}, err
	}
	raw, err := json.Marshal(DeepMerge(base, patch))
	if err != nil {
		return DistributionOption{}, fmt.Errorf("marshal: %w", err)
	}
	var out DistributionOption
	if err := json.Unmarshal(raw, &out); err != nil {
		return DistributionOption{}, fmt.Errorf("unmarshal: %w", err)
	}
	return out, nil
}

// FormatFromPath determines a format from the extension of a path or URL. The extension
// is everything after the first dot of the final path element, so "a.shp.zip" is ".shp.zip".
func FormatFromPath(cat *catalogue.Catalogue, p string) (catalogue.Format, error) {
	name := path.Base(strings.TrimRight(p, "/"))
	if _, ext, ok := strings.Cut(name, "."); ok {
		if f, ok := cat.FormatByExtension("." + ext); ok {
			return f, nil
		}
	}
	return catalogue.Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, p)
}

// FormatFromFile determines a format from a media type, falling back to the file name.
func FormatFromFile(cat *catalogue.Catalogue, mediaType, name string) (catalogue.Format, error) {
	if f, ok := cat.FormatByType(mediaType); ok {
		return f, nil
	}
	return FormatFromPath(cat, name)
}
