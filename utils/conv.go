package utils

import (
	"bytes"

	"golang.org/x/text/transform"

	"github.com/mogaika/msh_browser/config"
)

// BytesToString cuts bs at first null and decodes it with configured charmap.
func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[:n])
	if err != nil {
		return string(bs[:n])
	}

	return string(s)
}

func BytesStringLength(bs []byte) int {
	if l := bytes.IndexByte(bs, 0); l == -1 {
		return len(bs)
	} else {
		return l
	}
}
