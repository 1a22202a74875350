package vfs

import (
	"io/ioutil"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// MshExtension is matched case insensitive.
const MshExtension = ".msh"

func DirectoryGetFile(d Directory, name string) (File, error) {
	if f, err := d.GetElement(name); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file %q", name)
	} else if f.IsDirectory() {
		return nil, errors.Errorf("File %q is directory, not a file", name)
	} else {
		return f.(File), nil
	}
}

// ReadFile returns whole content of file name from d.
func ReadFile(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	if err := f.Open(); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file %q", name)
	}
	defer f.Close()

	r, err := f.Reader()
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot get file %q reader", name)
	}
	return ioutil.ReadAll(r)
}

// ListMsh returns sorted names of msh files in d, sub directories are
// not visited.
func ListMsh(d Directory) ([]string, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(path.Ext(name), MshExtension) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result, nil
}
