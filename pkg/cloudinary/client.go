package cloudinary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
	"video-gallery/config"
)

var ErrRejected = errors.New("cloudinary rejected the request")

type DerivedAsset struct {
	Transformation string
	SecureURL      string
}

type UploadResult struct {
	PublicID  string
	Bytes     int64
	Duration  *float64
	SecureURL string
	// Eager holds the derived variants in the order the provider returned them.
	Eager []DerivedAsset
}

type Client struct {
	cld       *cld.Cloudinary
	cloudName string
}

func NewClient(cfg config.Cloudinary) (*Client, error) {
	c, err := cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	return &Client{cld: c, cloudName: cfg.CloudName}, nil
}

func (c *Client) CloudName() string {
	return c.cloudName
}

func (c *Client) Upload(ctx context.Context, file io.Reader, recipe Recipe) (*UploadResult, error) {
	res, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         recipe.Folder,
		ResourceType:   recipe.ResourceType,
		Transformation: recipe.Transformation,
		Eager:          recipe.EagerString(),
		EagerAsync:     api.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrRejected, res.Error.Message)
	}

	eager := make([]DerivedAsset, 0, len(res.Eager))
	for _, e := range res.Eager {
		eager = append(eager, DerivedAsset{Transformation: e.Transformation, SecureURL: e.SecureURL})
	}

	zerolog.Ctx(ctx).Debug().
		Str("public_id", res.PublicID).
		Int("eager_count", len(eager)).
		Msg("cloudinary upload finished")

	return &UploadResult{
		PublicID:  res.PublicID,
		Bytes:     int64(res.Bytes),
		Duration:  durationFrom(res.Response),
		SecureURL: res.SecureURL,
		Eager:     eager,
	}, nil
}

// Destroy removes an uploaded asset and its derivations. A missing asset is not an error.
func (c *Client) Destroy(ctx context.Context, publicID, resourceType string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%w: %s", ErrRejected, res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("%w: destroy returned %q", ErrRejected, res.Result)
	}
}

// durationFrom digs the duration out of the raw upload response; the typed
// result does not carry it for every resource type.
func durationFrom(raw interface{}) *float64 {
	var fields map[string]interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		fields = v
	case *map[string]interface{}:
		if v != nil {
			fields = *v
		}
	case []byte:
		_ = json.Unmarshal(v, &fields)
	case json.RawMessage:
		_ = json.Unmarshal(v, &fields)
	}

	d, ok := fields["duration"].(float64)
	if !ok || d < 0 {
		return nil
	}
	return &d
}
