package msh

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/mogaika/msh_browser/chunk"
)

type Option func(d *decoder)

func WithLogger(l *Logger) Option {
	return func(d *decoder) {
		d.log = l
	}
}

// WithLegacyNormalCount makes NRML decoding iterate over count of the last
// POSL chunk instead of count stored in NRML itself. Some old tools read
// files this way, for well formed files both counts are equal.
func WithLegacyNormalCount() Option {
	return func(d *decoder) {
		d.legacyNormalCount = true
	}
}

// decoder holds state of one decode call
type decoder struct {
	log               *Logger
	legacyNormalCount bool
	materials         []*Material
}

// ReadScene reads whole source and decodes it.
func ReadScene(r io.Reader, opts ...Option) (*Scene, error) {
	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read source")
	}
	return DecodeScene(buf, opts...)
}

func DecodeScene(buf []byte, opts ...Option) (*Scene, error) {
	d := &decoder{}
	for _, opt := range opts {
		opt(d)
	}

	scene := &Scene{
		Models: make([]*Model, 0),
	}

	err := chunk.NewReader(buf).ReadChild(tagHEDR, func(hedr *chunk.Reader) error {
		return hedr.ReadChild(tagMSH2, func(msh2 *chunk.Reader) error {
			return d.readMsh2(msh2, scene)
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode scene")
	}

	scene.MaterialList = d.materials
	scene.Materials = make(map[string]*Material, len(d.materials))
	for i, mat := range d.materials {
		scene.Materials[MaterialKey(i)] = mat
	}

	d.log.Printf("decoded %d materials, %d models", len(scene.MaterialList), len(scene.Models))
	return scene, nil
}

func (d *decoder) readMsh2(msh2 *chunk.Reader, scene *Scene) error {
	// scene info is not needed
	if err := msh2.ReadChild(tagSINF, func(*chunk.Reader) error { return nil }); err != nil {
		return err
	}

	if err := msh2.ReadChild(tagMATL, func(matl *chunk.Reader) error {
		var err error
		d.materials, err = d.readMaterialList(matl)
		return err
	}); err != nil {
		return err
	}

	for msh2.CouldHaveChild() {
		if tag, _ := msh2.PeekNextHeader(); tag != tagMODL {
			d.log.Chunkf(msh2, "skipping %v", tag)
			if err := msh2.SkipChild(); err != nil {
				return err
			}
			continue
		}
		if err := msh2.ReadChild(tagMODL, func(modl *chunk.Reader) error {
			model, err := d.readModel(modl)
			if err != nil {
				return err
			}
			scene.Models = append(scene.Models, model)
			return nil
		}); err != nil {
			return errors.Wrapf(err, "model %d", len(scene.Models))
		}
	}

	return nil
}

func readStringChild(r *chunk.Reader, tag chunk.Tag, out *string) error {
	return r.ReadChild(tag, func(child *chunk.Reader) error {
		s, err := child.ReadString()
		*out = s
		return err
	})
}

func readU32Child(r *chunk.Reader, tag chunk.Tag, out *uint32) error {
	return r.ReadChild(tag, func(child *chunk.Reader) error {
		v, err := child.ReadU32()
		*out = v
		return err
	})
}
