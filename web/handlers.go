package web

import (
	"archive/zip"
	"bytes"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/msh_browser/chunk"
	"github.com/mogaika/msh_browser/msh"
	"github.com/mogaika/msh_browser/status"
	"github.com/mogaika/msh_browser/utils/gltfutils"
	"github.com/mogaika/msh_browser/vfs"
	"github.com/mogaika/msh_browser/webutils"
)

func loadScene(file string) (*msh.Scene, error) {
	data, err := vfs.ReadFile(ServerDirectory, file)
	if err != nil {
		return nil, err
	}

	opts := append([]msh.Option{
		msh.WithLogger(msh.NewLogger(&status.Writer{Prefix: "[" + file + "] "})),
	}, DecodeOptions...)

	scene, err := msh.DecodeScene(data, opts...)
	if err != nil {
		status.Error("%s: %v", file, err)
		return nil, errors.Wrapf(err, "File %q", file)
	}
	status.Info("%s: %d models, %d materials", file, len(scene.Models), len(scene.MaterialList))
	return scene, nil
}

func isDecodeError(err error) bool {
	for _, kind := range []error{
		chunk.ErrTruncatedData,
		chunk.ErrOutOfBounds,
		chunk.ErrChunkOverrun,
		chunk.ErrUnexpectedChunk,
		chunk.ErrMalformedFile,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func writeLoadError(w http.ResponseWriter, err error) {
	if isDecodeError(err) {
		webutils.WriteErrorCode(w, http.StatusUnprocessableEntity, err)
	} else {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
	}
}

func HandlerAjaxList(w http.ResponseWriter, r *http.Request) {
	if files, err := vfs.ListMsh(ServerDirectory); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func HandlerAjaxScene(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if scene, err := loadScene(file); err != nil {
		writeLoadError(w, err)
	} else {
		webutils.WriteJson(w, scene)
	}
}

func HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if scene, err := loadScene(file); err != nil {
		writeLoadError(w, err)
	} else {
		webutils.WriteYaml(w, scene)
	}
}

func HandlerAjaxTree(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := vfs.ReadFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, err)
		return
	}
	if roots, err := chunk.Walk(data); err != nil {
		webutils.WriteErrorCode(w, http.StatusUnprocessableEntity, err)
	} else {
		webutils.WriteJson(w, roots)
	}
}

func HandlerExport(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	format := mux.Vars(r)["format"]
	name := strings.TrimSuffix(file, path.Ext(file))

	scene, err := loadScene(file)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	var buf bytes.Buffer
	var fileName string
	switch format {
	case "glb":
		doc, err := scene.ExportGLTF()
		if err == nil {
			err = gltfutils.ExportBinary(&buf, doc)
		}
		if err != nil {
			webutils.WriteError(w, errors.Wrapf(err, "Failed to export gltf"))
			return
		}
		fileName = name + ".glb"
	case "fbx":
		if err := scene.ExportFbx(name + ".fbx").Write(&buf); err != nil {
			webutils.WriteError(w, errors.Wrapf(err, "Failed to export fbx"))
			return
		}
		fileName = name + ".fbx"
	case "obj":
		if err := writeObjZip(&buf, scene, name); err != nil {
			webutils.WriteError(w, errors.Wrapf(err, "Failed to export obj"))
			return
		}
		fileName = name + ".obj.zip"
	default:
		webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Errorf("Unknown export format %q", format))
		return
	}

	webutils.WriteFile(w, &buf, fileName)
}

func writeObjZip(buf *bytes.Buffer, scene *msh.Scene, name string) error {
	var obj, mtl bytes.Buffer
	if err := scene.ExportObj(&obj, &mtl, name+".mtl"); err != nil {
		return err
	}

	z := zip.NewWriter(buf)
	for fileName, data := range map[string][]byte{
		name + ".obj": obj.Bytes(),
		name + ".mtl": mtl.Bytes(),
	} {
		fw, err := z.Create(fileName)
		if err != nil {
			return errors.Wrapf(err, "Can't create zip for %q", fileName)
		}
		if _, err := fw.Write(data); err != nil {
			return errors.Wrapf(err, "Can't write zip for %q", fileName)
		}
	}
	return z.Close()
}
