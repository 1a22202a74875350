package msh

import (
	"github.com/mogaika/msh_browser/chunk"
)

func (d *decoder) readModel(modl *chunk.Reader) (*Model, error) {
	model := &Model{
		Geometry: make([]*GeometrySegment, 0),
	}

	for modl.CouldHaveChild() {
		tag, _ := modl.PeekNextHeader()

		var err error
		switch tag {
		case tagMTYP:
			var modelType uint32
			err = readU32Child(modl, tagMTYP, &modelType)
			model.Type = ModelType(modelType)
		case tagMNDX:
			// model index, order of MODL chunks is enough
			err = modl.SkipChild()
		case tagNAME:
			if err = readStringChild(modl, tagNAME, &model.Name); err == nil {
				d.log.Chunkf(modl, "model %q", model.Name)
			}
		case tagPRNT:
			err = readStringChild(modl, tagPRNT, &model.Parent)
		case tagFLGS:
			var flags uint32
			err = readU32Child(modl, tagFLGS, &flags)
			model.Hidden = flags != 0
		case tagTRAN:
			err = modl.ReadChild(tagTRAN, func(tran *chunk.Reader) error {
				var err error
				model.Transform, err = readTransform(tran)
				return err
			})
		case tagGEOM:
			err = modl.ReadChild(tagGEOM, func(geom *chunk.Reader) error {
				// only first segment of GEOM is used
				if next, ok := geom.PeekNextHeader(); !ok || next != tagSEGM {
					return nil
				}
				return geom.ReadChild(tagSEGM, func(segm *chunk.Reader) error {
					seg, err := d.readSegment(segm)
					if err != nil {
						return err
					}
					model.Geometry = append(model.Geometry, seg)
					return nil
				})
			})
		case tagSWCI:
			err = modl.ReadChild(tagSWCI, func(swci *chunk.Reader) error {
				var err error
				model.Collision, err = readCollisionPrimitive(swci)
				return err
			})
		default:
			err = modl.SkipChild()
		}
		if err != nil {
			return nil, err
		}
	}

	return model, nil
}

func readTransform(tran *chunk.Reader) (ModelTransform, error) {
	var xform ModelTransform

	// scale is not used
	if err := tran.Skip(4 * 3); err != nil {
		return xform, err
	}

	rotation, err := tran.ReadF32s(4)
	if err != nil {
		return xform, err
	}
	copy(xform.Rotation[:], rotation)

	position, err := tran.ReadF32s(3)
	if err != nil {
		return xform, err
	}
	copy(xform.Position[:], position)

	return xform, nil
}

func readCollisionPrimitive(swci *chunk.Reader) (*CollisionPrimitive, error) {
	shape, err := swci.ReadU32()
	if err != nil {
		return nil, err
	}
	values, err := swci.ReadF32s(3)
	if err != nil {
		return nil, err
	}
	return &CollisionPrimitive{
		Shape:  CollisionShape(shape),
		Radius: values[0],
		Height: values[1],
		Length: values[2],
	}, nil
}
