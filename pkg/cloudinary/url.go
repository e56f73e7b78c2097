package cloudinary

import (
	"fmt"
	"strings"
)

const deliveryHost = "https://res.cloudinary.com"

// DeliveryURL builds an on-the-fly delivery URL for an uploaded asset.
func DeliveryURL(cloudName, resourceType, transformation, publicID, format string) string {
	segments := []string{deliveryHost, cloudName, resourceType, "upload"}
	if transformation != "" {
		segments = append(segments, transformation)
	}
	target := publicID
	if format != "" {
		target = fmt.Sprintf("%s.%s", publicID, format)
	}
	segments = append(segments, target)
	return strings.Join(segments, "/")
}
