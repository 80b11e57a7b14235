// Package wfs fetches GRTS cell features of the NABat sampling frames from
// the ScienceBase OGC Web Feature Service.
package wfs

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NABat/tools/cmd/nabat/frames"
	"github.com/paulmach/orb/geojson"
	perrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultServiceURL is the ScienceBase mapping service. The frame's item id
// is appended as a path segment.
const DefaultServiceURL = "https://www.sciencebase.gov/catalogMaps/mapping/ows"

const (
	version = "1.1.0"
	srsName = "EPSG:4326"

	jsonFormat = "application/json"
)

// Layers published alongside each frame that are not the cells.
var ignoredLayers = map[string]struct{}{
	"sb:boundingBox": struct{}{},
	"sb:footprint":   struct{}{},
}

// Client is a WFS client for the frame services.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.SugaredLogger
}

// New initializes a client. An empty base uses DefaultServiceURL.
func New(base string, timeout time.Duration, logger *zap.SugaredLogger) (*Client, error) {
	if base == "" {
		base = DefaultServiceURL
	}

	if _, err := url.Parse(base); err != nil {
		return nil, perrors.Wrap(err, "bad service URL")
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}, nil
}

func (c *Client) endpoint(s *frames.Spec, params url.Values) string {
	params.Set("service", "wfs")
	params.Set("version", version)

	return fmt.Sprintf("%s/%s?%s", c.BaseURL, s.ScienceBaseID, params.Encode())
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}

	req = req.WithContext(ctx)

	c.Logger.Debugw("wfs request", "url", u)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned %s: %s", resp.Status, truncate(b, 200))
	}

	return b, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}

	return string(b)
}

type capabilities struct {
	FeatureTypes []struct {
		Name string `xml:"Name"`
	} `xml:"FeatureTypeList>FeatureType"`
}

// LayerName returns the name of the cell layer from a capabilities document.
func LayerName(r io.Reader) (string, error) {
	var caps capabilities

	if err := xml.NewDecoder(r).Decode(&caps); err != nil {
		return "", perrors.Wrap(err, "failed to decode capabilities")
	}

	for _, ft := range caps.FeatureTypes {
		name := strings.TrimSpace(ft.Name)

		if _, ok := ignoredLayers[name]; !ok && name != "" {
			return name, nil
		}
	}

	return "", fmt.Errorf("no cell layer in capabilities")
}

// Layer returns the name of the frame's cell layer.
func (c *Client) Layer(ctx context.Context, s *frames.Spec) (string, error) {
	b, err := c.get(ctx, c.endpoint(s, url.Values{"request": {"GetCapabilities"}}))
	if err != nil {
		return "", perrors.Wrapf(err, "failed to get %s capabilities", s.Name)
	}

	return LayerName(strings.NewReader(string(b)))
}

// Cells returns the cells of a frame matching the query as GeoJSON features
// in WGS84.
func (c *Client) Cells(ctx context.Context, frame string, q *Query) (*geojson.FeatureCollection, error) {
	s, err := frames.Lookup(frame)
	if err != nil {
		return nil, err
	}

	layer, err := c.Layer(ctx, s)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"request":      {"GetFeature"},
		"typename":     {layer},
		"srsname":      {srsName},
		"outputFormat": {jsonFormat},
	}

	if q != nil {
		if e := q.Expression(s.PriorityCutoff); e != nil {
			f, err := Marshal(e)
			if err != nil {
				return nil, err
			}

			params.Set("filter", f)
		}
	}

	b, err := c.get(ctx, c.endpoint(s, params))
	if err != nil {
		return nil, perrors.Wrapf(err, "failed to get %s features", s.Name)
	}

	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, perrors.Wrap(err, "failed to decode features")
	}

	c.Logger.Infow("fetched cells", "frame", s.Name, "layer", layer, "count", len(fc.Features))

	return fc, nil
}
