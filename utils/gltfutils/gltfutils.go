package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

// Cacher keeps document being built together with already exported
// objects, so shared ones are written once.
type Cacher struct {
	Doc   *gltf.Document
	cache map[string]interface{}
}

func NewCacher() *Cacher {
	return &Cacher{
		Doc:   gltf.NewDocument(),
		cache: make(map[string]interface{}),
	}
}

func (gc *Cacher) AddCache(key string, v interface{}) {
	gc.cache[key] = v
}

func (gc *Cacher) GetCached(key string) interface{} {
	return gc.cache[key]
}

func (gc *Cacher) GetCachedOr(key string, create func() interface{}) interface{} {
	if v, ok := gc.cache[key]; ok {
		return v
	}
	v := create()
	gc.cache[key] = v
	return v
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
