package fbxbuilder

import (
	"path/filepath"
	"sort"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
)

const FBX_CREATOR = "FBX SDK/FBX Plugins version 2013.3 build=20121223"
const FBX_APPLICATION_VENDOR = "msh_browser"
const FBX_APPLICATION_NAME = "msh_browser"
const FBX_APPLICATION_VERSION = "1.0"
const FBX_DATE_TIME_GMT = "01/01/1970 00:00:00.000"
const FBX_CREATION_TIME = "1970-01-01 10:00:00:000"

var FBX_FILE_ID []byte = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

func applicationProperties(prefix string) []*fbx.Node {
	return []*fbx.Node{
		bfbx73.P(prefix, "Compound", "", ""),
		bfbx73.P(prefix+"|ApplicationVendor", "KString", "", "", FBX_APPLICATION_VENDOR),
		bfbx73.P(prefix+"|ApplicationName", "KString", "", "", FBX_APPLICATION_NAME),
		bfbx73.P(prefix+"|ApplicationVersion", "KString", "", "", FBX_APPLICATION_VERSION),
		bfbx73.P(prefix+"|DateTime_GMT", "DateTime", "", "", FBX_DATE_TIME_GMT),
	}
}

func (f *FBXBuilder) createHeaders(filename string) {
	sceneInfoProps := bfbx73.Properties70().AddNodes(
		bfbx73.P("DocumentUrl", "KString", "Url", "", filename),
		bfbx73.P("SrcDocumentUrl", "KString", "Url", "", filename),
	)
	sceneInfoProps.AddNodes(applicationProperties("Original")...)
	sceneInfoProps.AddNodes(bfbx73.P("Original|FileName", "KString", "", "", filepath.Base(filename)))
	sceneInfoProps.AddNodes(applicationProperties("LastSaved")...)

	f.Root().AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXHeaderVersion(1003),
			bfbx73.FBXVersion(7400),
			bfbx73.EncryptionType(0),
			bfbx73.CreationTimeStamp().AddNodes(
				bfbx73.Version(1000),
				bfbx73.Year(1970),
				bfbx73.Month(1),
				bfbx73.Day(1),
				bfbx73.Hour(10),
				bfbx73.Minute(0),
				bfbx73.Second(0),
				bfbx73.Millisecond(0),
			),
			bfbx73.Creator(FBX_CREATOR),
			bfbx73.SceneInfo("GlobalInfo\x00\x01SceneInfo", "UserData").AddNodes(
				bfbx73.Type("UserData"),
				bfbx73.Version(100),
				bfbx73.MetaData().AddNodes(
					bfbx73.Version(100),
					bfbx73.Title(""),
					bfbx73.Subject(""),
					bfbx73.Author(""),
					bfbx73.Keywords(""),
					bfbx73.Revision(""),
					bfbx73.Comment(""),
				),
				sceneInfoProps,
			),
		),
		bfbx73.FileId(FBX_FILE_ID),
		bfbx73.CreationTime(FBX_CREATION_TIME),
		bfbx73.Creator(FBX_CREATOR),
		bfbx73.GlobalSettings().AddNodes(
			bfbx73.Version(1000),
			bfbx73.Properties70().AddNodes(
				// y up, right handed, same as msh
				bfbx73.P("UpAxis", "int", "Integer", "", int32(1)),
				bfbx73.P("UpAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("FrontAxis", "int", "Integer", "", int32(2)),
				bfbx73.P("FrontAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("CoordAxis", "int", "Integer", "", int32(0)),
				bfbx73.P("CoordAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("OriginalUpAxis", "int", "Integer", "", int32(1)),
				bfbx73.P("OriginalUpAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("UnitScaleFactor", "double", "Number", "", float64(1)),
				bfbx73.P("OriginalUnitScaleFactor", "double", "Number", "", float64(1)),
				bfbx73.P("AmbientColor", "ColorRGB", "Color", "", float64(0), float64(0), float64(0)),
			),
		),
		bfbx73.Documents().AddNodes(
			bfbx73.Count(1),
			bfbx73.Document(f.GenerateId(), "Scene", "Scene").AddNodes(
				bfbx73.Properties70().AddNodes(
					bfbx73.P("SourceObject", "object", "", ""),
					bfbx73.P("ActiveAnimStackName", "KString", "", "", ""),
				),
				bfbx73.RootNode(0),
			),
		),
		bfbx73.References(),
		f.definitions,
		f.objects,
		f.connections,
		bfbx73.Takes().AddNodes(
			bfbx73.Current(""),
		),
	)
}

// templates of object types scene export produces
var objectTemplates = map[string]func() *fbx.Node{
	"Model": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxNode").AddNodes(
			bfbx73.Properties70().AddNodes(
				bfbx73.P("QuaternionInterpolate", "enum", "", "", int32(0)),
				bfbx73.P("Show", "bool", "", "", int32(1)),
				bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(0), float64(0), float64(0)),
				bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(0), float64(0), float64(0)),
				bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(1), float64(1), float64(1)),
				bfbx73.P("Visibility", "Visibility", "", "A", float64(1)),
				bfbx73.P("Visibility Inheritance", "Visibility Inheritance", "", "", int32(1)),
			),
		)
	},
	"Material": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxSurfaceLambert").AddNodes(
			bfbx73.Properties70().AddNodes(
				bfbx73.P("ShadingModel", "KString", "", "", "Lambert"),
				bfbx73.P("MultiLayer", "bool", "", "", int32(0)),
				bfbx73.P("EmissiveColor", "Color", "", "A", float64(0), float64(0), float64(0)),
				bfbx73.P("EmissiveFactor", "Number", "", "A", float64(1)),
				bfbx73.P("AmbientColor", "Color", "", "A", float64(0.2), float64(0.2), float64(0.2)),
				bfbx73.P("AmbientFactor", "Number", "", "A", float64(1)),
				bfbx73.P("DiffuseColor", "Color", "", "A", float64(1), float64(1), float64(1)),
				bfbx73.P("DiffuseFactor", "Number", "", "A", float64(1)),
			),
		)
	},
	"Geometry": func() *fbx.Node {
		return bfbx73.PropertyTemplate("FbxMesh").AddNodes(
			bfbx73.Properties70().AddNodes(
				bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
				bfbx73.P("Primary Visibility", "bool", "", "", int32(1)),
				bfbx73.P("Casts Shadows", "bool", "", "", int32(1)),
				bfbx73.P("Receive Shadows", "bool", "", "", int32(1)),
			),
		)
	},
}

// countDefinitions fills Definitions with count of every object type added
// to the document.
func (f *FBXBuilder) countDefinitions() {
	counts := make(map[string]int32)
	for _, object := range f.objects.Nodes {
		counts[object.Name]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	// 1 for GlobalSettings
	totalCount := int32(1)
	f.definitions.Nodes = f.definitions.Nodes[:0]
	f.definitions.AddNodes(
		bfbx73.Version(100),
		bfbx73.Count(0),
		bfbx73.ObjectType("GlobalSettings").AddNodes(bfbx73.Count(1)),
	)

	for _, name := range names {
		totalCount += counts[name]

		objectType := bfbx73.ObjectType(name).AddNodes(bfbx73.Count(counts[name]))
		if template, ok := objectTemplates[name]; ok {
			objectType.AddNodes(template())
		}
		f.definitions.AddNodes(objectType)
	}

	f.definitions.GetNode("Count").Properties[0] = totalCount
}
