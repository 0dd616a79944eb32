package constants

// Upload gates enforced at the gateway before any byte reaches upstream.
const (
	MaxThumbnailBytes  = 5 << 20   // 5MB per image
	MaxVideoBytes      = 100 << 20 // 100MB per video file
	MaxVideoBatchBytes = 500 << 20 // 500MB per batch request
)

var AllowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// AllowedVideoMIME accepts any video/* subtype.
func AllowedVideoMIME(ct string) bool {
	return len(ct) > 6 && ct[:6] == "video/"
}
