package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mogaika/msh_browser/chunk"
	"github.com/mogaika/msh_browser/config"
	"github.com/mogaika/msh_browser/msh"
	"github.com/mogaika/msh_browser/utils"
	"github.com/mogaika/msh_browser/utils/fbxbuilder"
	"github.com/mogaika/msh_browser/utils/gltfutils"
)

func printModel(w io.Writer, s *msh.Scene, parents []int, i int, depth int) {
	m := s.Models[i]
	pad := strings.Repeat("  ", depth)
	hidden := ""
	if m.Hidden {
		hidden = " hidden"
	}
	fmt.Fprintf(w, "%s%s [%v%s] pos %v\n", pad, m.Name, m.Type, hidden, m.Transform.Position)
	for iSeg, seg := range m.Geometry {
		fmt.Fprintf(w, "%s  segment %d: material %q, %d vertices, %d triangles, %d polygons\n",
			pad, iSeg, seg.MaterialName, len(seg.Positions), len(seg.Triangles), len(seg.Polygons))
	}
	if m.Collision != nil {
		fmt.Fprintf(w, "%s  collision %v r:%v h:%v l:%v\n",
			pad, m.Collision.Shape, m.Collision.Radius, m.Collision.Height, m.Collision.Length)
	}
	for child, parent := range parents {
		if parent == i {
			printModel(w, s, parents, child, depth+1)
		}
	}
}

func printTree(w io.Writer, s *msh.Scene) {
	for i, mat := range s.MaterialList {
		fmt.Fprintf(w, "%s %q flags:%v render:%v textures:%q\n",
			msh.MaterialKey(i), mat.Name, mat.Flags, mat.RenderType, mat.Textures)
	}

	parents := s.ParentIndexes()
	for i, parent := range parents {
		if parent < 0 {
			printModel(w, s, parents, i, 0)
		}
	}
}

func dump(w io.Writer, data []byte, format string, opts []msh.Option) error {
	if format == "chunks" {
		roots, err := chunk.Walk(data)
		if err != nil {
			return err
		}
		for _, root := range roots {
			fmt.Fprint(w, root.StringTree())
		}
		return nil
	}

	scene, err := msh.DecodeScene(data, opts...)
	if err != nil {
		return err
	}

	switch format {
	case "tree":
		printTree(w, scene)
	case "spew":
		fmt.Fprint(w, utils.SDump(scene))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(scene); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(scene)
	default:
		return fmt.Errorf("Unknown dump format %q", format)
	}
	return nil
}

// addTextures puts texture files found in dir into fbx zip.
func addTextures(f *fbxbuilder.FBXBuilder, s *msh.Scene, dir string) {
	for _, mat := range s.MaterialList {
		for _, texture := range mat.Textures {
			if texture == "" {
				continue
			}
			data, err := ioutil.ReadFile(filepath.Join(dir, texture))
			if err != nil {
				log.Printf("Texture %q of material %q not added: %v", texture, mat.Name, err)
				continue
			}
			f.AddExportFile(texture, data)
		}
	}
}

func export(s *msh.Scene, name, format, outDir, textureDir string) error {
	if err := os.MkdirAll(outDir, 0777); err != nil {
		return err
	}
	outPath := filepath.Join(outDir, name)

	var buf bytes.Buffer
	switch format {
	case "glb":
		doc, err := s.ExportGLTF()
		if err != nil {
			return err
		}
		if err := gltfutils.ExportBinary(&buf, doc); err != nil {
			return err
		}
		outPath += ".glb"
	case "fbx":
		if err := s.ExportFbx(name + ".fbx").Write(&buf); err != nil {
			return err
		}
		outPath += ".fbx"
	case "fbxzip":
		f := s.ExportFbx(name + ".fbx")
		addTextures(f, s, textureDir)
		if err := f.WriteZip(&buf, name+".fbx"); err != nil {
			return err
		}
		outPath += ".zip"
	case "fbxtext":
		buf.WriteString(s.ExportFbx(name + ".fbx").Dump())
		outPath += ".fbx.txt"
	case "obj":
		var mtl bytes.Buffer
		if err := s.ExportObj(&buf, &mtl, name+".mtl"); err != nil {
			return err
		}
		if err := ioutil.WriteFile(outPath+".mtl", mtl.Bytes(), 0666); err != nil {
			return err
		}
		outPath += ".obj"
	default:
		return fmt.Errorf("Unknown export format %q", format)
	}

	log.Printf("Writing %s", outPath)
	return ioutil.WriteFile(outPath, buf.Bytes(), 0666)
}

func main() {
	var inMsh, format, exportFormat, outDir, encoding string
	var verbose, legacyNormals bool
	flag.StringVar(&inMsh, "msh", "", "Path to msh file")
	flag.StringVar(&format, "format", "tree", "Dump format: tree, chunks, spew, yaml, json")
	flag.StringVar(&exportFormat, "export", "", "Export scene instead of dump: glb, fbx, fbxzip, fbxtext, obj")
	flag.StringVar(&outDir, "o", ".", "Directory for exported files")
	flag.StringVar(&encoding, "encoding", config.GetEncoding().String(), "Charmap of strings in file")
	flag.BoolVar(&verbose, "v", false, "Print decoding progress")
	flag.BoolVar(&legacyNormals, "legacynormals", false, "Read normals using positions count")
	flag.Parse()

	if inMsh == "" && flag.NArg() != 0 {
		inMsh = flag.Arg(0)
	}
	if inMsh == "" {
		flag.PrintDefaults()
		return
	}

	if err := config.SetEncoding(encoding); err != nil {
		log.Fatalf("%v, available: %s", err, strings.Join(config.ListEncodings(), ", "))
	}

	opts := make([]msh.Option, 0)
	if verbose {
		opts = append(opts, msh.WithLogger(msh.NewLogger(os.Stderr)))
	}
	if legacyNormals {
		opts = append(opts, msh.WithLegacyNormalCount())
	}

	data, err := ioutil.ReadFile(inMsh)
	if err != nil {
		log.Fatal(err)
	}

	if exportFormat == "" {
		if err := dump(os.Stdout, data, format, opts); err != nil {
			log.Fatalf("%s: %v", inMsh, err)
		}
		return
	}

	scene, err := msh.DecodeScene(data, opts...)
	if err != nil {
		log.Fatalf("%s: %v", inMsh, err)
	}
	name := strings.TrimSuffix(filepath.Base(inMsh), filepath.Ext(inMsh))
	if err := export(scene, name, exportFormat, outDir, filepath.Dir(inMsh)); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
}
