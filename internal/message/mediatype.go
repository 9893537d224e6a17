package message

// MediaType is an image MIME type. The type is an open string: values parsed
// off the wire are preserved even when unrecognized, and only construction
// of outbound image blocks restricts the set.
type MediaType string

// Media types the agent accepts for outbound images.
const (
	MediaTypeJPEG MediaType = "image/jpeg"
	MediaTypePNG  MediaType = "image/png"
	MediaTypeGIF  MediaType = "image/gif"
	MediaTypeWebP MediaType = "image/webp"
)

// Supported reports whether the media type may be sent to the agent.
func (m MediaType) Supported() bool {
	switch m {
	case MediaTypeJPEG, MediaTypePNG, MediaTypeGIF, MediaTypeWebP:
		return true
	default:
		return false
	}
}
