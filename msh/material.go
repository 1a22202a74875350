package msh

import (
	"github.com/pkg/errors"

	"github.com/mogaika/msh_browser/chunk"
	"github.com/mogaika/msh_browser/utils"
)

func (d *decoder) readMaterialList(matl *chunk.Reader) ([]*Material, error) {
	count, err := matl.ReadCount(chunk.HeaderSize)
	if err != nil {
		return nil, errors.Wrapf(err, "materials count")
	}

	materials := make([]*Material, 0, count)
	for i := 0; i < count; i++ {
		if err := matl.ReadChild(tagMATD, func(matd *chunk.Reader) error {
			mat, err := d.readMaterial(matd)
			if err != nil {
				return err
			}
			materials = append(materials, mat)
			return nil
		}); err != nil {
			return nil, errors.Wrapf(err, "material %d of %d", i, count)
		}
	}

	return materials, nil
}

func (d *decoder) readMaterial(matd *chunk.Reader) (*Material, error) {
	mat := &Material{}

	for matd.CouldHaveChild() {
		tag, _ := matd.PeekNextHeader()

		var err error
		switch tag {
		case tagNAME:
			if err = readStringChild(matd, tagNAME, &mat.Name); err == nil {
				d.log.Chunkf(matd, "material %q", mat.Name)
			}
		case tagDATA:
			err = matd.ReadChild(tagDATA, func(data *chunk.Reader) error {
				return readMaterialData(data, mat)
			})
		case tagATRB:
			err = matd.ReadChild(tagATRB, func(atrb *chunk.Reader) error {
				return readMaterialAttributes(atrb, mat)
			})
		case tagTX0D:
			err = readStringChild(matd, tagTX0D, &mat.Textures[0])
		case tagTX1D:
			err = readStringChild(matd, tagTX1D, &mat.Textures[1])
		case tagTX2D:
			err = readStringChild(matd, tagTX2D, &mat.Textures[2])
		case tagTX3D:
			err = readStringChild(matd, tagTX3D, &mat.Textures[3])
		default:
			err = matd.Skip(4)
		}
		if err != nil {
			return nil, err
		}
	}

	return mat, nil
}

func readMaterialData(data *chunk.Reader, mat *Material) error {
	// diffuse color, ignored by the game
	if _, err := data.ReadF32s(4); err != nil {
		return err
	}
	specular, err := data.ReadF32s(4)
	if err != nil {
		return err
	}
	mat.Specular = utils.NewColorFloatA(specular)
	// ambient color
	if _, err := data.ReadF32s(4); err != nil {
		return err
	}
	// specular exponent
	_, err = data.ReadF32()
	return err
}

func readMaterialAttributes(atrb *chunk.Reader, mat *Material) error {
	flags, err := atrb.ReadU8()
	if err != nil {
		return err
	}
	renderType, err := atrb.ReadU8()
	if err != nil {
		return err
	}
	data, err := atrb.ReadU8s(2)
	if err != nil {
		return err
	}
	mat.Flags = MaterialFlags(flags)
	mat.RenderType = RenderType(renderType)
	copy(mat.Data[:], data)
	return nil
}
