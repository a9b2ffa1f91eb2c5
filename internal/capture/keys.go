package capture

const (
	// CaptureINIFilename is the index file of a capture directory.
	CaptureINIFilename = "capture.ini"

	// capture.ini keys
	CaptureSectionName = "capture"
	VersionKey         = "version"
	DescriptionKey     = "description"

	EventsSectionName = "events"
	EventFilesKey     = "files"

	DecodersSectionName = "decoders"
	DecoderStackKey     = "stack"
	StickyErrorKey      = "sticky_error"

	// per decoder sections are named "decoder.<name>"
	DecoderSectionPrefix = "decoder."
	DecoderInstanceKey   = "instance"
	DecoderAddressesKey  = "addresses"
)
