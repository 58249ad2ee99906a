package objects

import (
	"encoding/base64"
	"strings"
)

// DecodeDataURL returns the payload of a base64 data URL such as
// "data:application/octet-stream;base64,QUJD" and its media type. A bare
// base64 string without the data: prefix is accepted too. Standard and
// URL-safe alphabets, padded or not, are decoded.
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)

	var mediaType string
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", ErrInvalidContent
		}

		params := strings.Split(meta, ";")
		if params[len(params)-1] != "base64" {
			return nil, "", ErrInvalidContent
		}
		mediaType = params[0]
		s = payload
	}

	data, err := decodeBase64(s)
	if err != nil {
		return nil, "", ErrInvalidContent
	}

	return data, mediaType, nil
}

func decodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var err error
	for _, enc := range encodings {
		var data []byte
		if data, err = enc.DecodeString(s); err == nil {
			return data, nil
		}
	}

	return nil, err
}
