package utils

import (
	"testing"

	"github.com/mogaika/msh_browser/config"
)

func TestBytesToString(t *testing.T) {
	var stringTests = []struct {
		in  []byte
		out string
	}{
		{[]byte("Cube\x00\x00\x00\x00"), "Cube"},
		{[]byte("Cube"), "Cube"},
		{[]byte{0, 'a'}, ""},
		{[]byte{'c', 'a', 'f', 0xe9, 0}, "café"},
	}

	for _, test := range stringTests {
		if s := BytesToString(test.in); s != test.out {
			t.Errorf("BytesToString(%q)=%q; expected %q", test.in, s, test.out)
		}
		if l := BytesStringLength(test.in); l > len(test.in) {
			t.Errorf("BytesStringLength(%q)=%d", test.in, l)
		}
	}
}

func TestBytesToStringEncoding(t *testing.T) {
	defer config.SetEncoding(config.GetEncoding().String())

	if err := config.SetEncoding("Windows 1251"); err != nil {
		t.Fatal(err)
	}
	// cyrillic small letter a
	if s := BytesToString([]byte{0xe0}); s != "а" {
		t.Errorf("got %q", s)
	}

	if err := config.SetEncoding("no such encoding"); err == nil {
		t.Errorf("unknown encoding accepted")
	}
}
