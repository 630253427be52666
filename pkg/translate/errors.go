package translate

// Backend error codes the image catalog is known to emit on failed image
// builds. Anything else collapses to InternalError so backend internals
// never leak to clients.
const (
	rawPrepareDidNotRun = "EPREPAREIMAGEDIDNOTRUN"
	rawNoOrigin         = "ENOORIGIN"
	rawNotSupported     = "ENOTSUP"
)

var knownImageErrors = map[string]ImageError{
	rawPrepareDidNotRun: {
		Code:    "PrepareImageDidNotRun",
		Message: "The prepare image script did not run on the source machine.",
	},
	rawNoOrigin: {
		Code:    "NoOriginImage",
		Message: "The origin image for this incremental image is not available.",
	},
	rawNotSupported: {
		Code:    "NotSupported",
		Message: "The operation is not supported for this image.",
	},
}

var genericImageError = ImageError{
	Code:    "InternalError",
	Message: "An internal error occurred.",
}

func translateImageError(rawCode string) *ImageError {
	if known, ok := knownImageErrors[rawCode]; ok {
		return &known
	}
	e := genericImageError
	return &e
}
