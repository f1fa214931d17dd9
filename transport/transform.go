package transport

// DefaultTransform is the name under which StripHeaders is registered.
const DefaultTransform = "transform"

type TransformFunc func(res *Response, context []byte) *Response

type Transforms map[string]TransformFunc

func DefaultTransforms() Transforms {
	return Transforms{
		DefaultTransform: StripHeaders,
	}
}

// StripHeaders drops response headers (dates, request ids, cookies) that
// differ between otherwise identical responses.
func StripHeaders(res *Response, _ []byte) *Response {
	return &Response{
		Status: res.Status,
		Body:   res.Body,
	}
}
